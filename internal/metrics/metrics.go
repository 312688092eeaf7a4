package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StudentMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentadmin", Name: "student_mutations_total", Help: "Student record mutations by action",
	}, []string{"action"})
	AuditFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "studentadmin", Name: "audit_write_failures_total", Help: "Activity log writes that failed",
	})
	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentadmin", Name: "events_published_total", Help: "Realtime events published by name",
	}, []string{"event"})
	RealtimeClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "studentadmin", Name: "realtime_clients", Help: "Currently connected realtime clients",
	})
	LoginFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "studentadmin", Name: "login_failures_total", Help: "Rejected login attempts",
	})
)

func init() {
	prometheus.MustRegister(StudentMutations, AuditFailures, EventsPublished, RealtimeClients, LoginFailures)
}

func Handler() http.Handler { return promhttp.Handler() }
