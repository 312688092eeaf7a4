// Package httpapi wires the REST and realtime surface of the student
// administration service.
package httpapi

import (
	"context"
	"database/sql"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studentadmin/internal/activity"
	"studentadmin/internal/auth"
	"studentadmin/internal/config"
	"studentadmin/internal/httpmiddleware"
	"studentadmin/internal/metrics"
	"studentadmin/internal/realtime"
	"studentadmin/internal/student"
)

// AuthService is what the auth handlers need from internal/auth.
type AuthService interface {
	Register(ctx context.Context, username, password, namaLengkap, email, role string) (int64, error)
	Login(ctx context.Context, username, password string) (auth.Session, error)
}

// StudentService is what the student handlers need from internal/student.
type StudentService interface {
	List(ctx context.Context) ([]student.Record, error)
	Create(ctx context.Context, actor string, actorID int64, f student.Fields) (student.Record, error)
	Update(ctx context.Context, actor string, id int64, f student.Fields) (student.Record, error)
	Delete(ctx context.Context, actor string, id int64) error
	AttachPhoto(ctx context.Context, actor string, id int64, originalName string, file io.Reader) (student.Record, error)
}

// LogLister is what the logs handler needs from internal/activity.
type LogLister interface {
	ListRecent(ctx context.Context, limit int) ([]activity.Entry, error)
}

// HealthChecker reports whether a backing service is reachable. The redis
// client satisfies it when the realtime backend runs over redis.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// Deps collects everything the router serves.
type Deps struct {
	Cfg      config.App
	Log      *zap.Logger
	Auth     AuthService
	Students StudentService
	Logs     LogLister
	Hub      *realtime.Hub
	DB       *sql.DB
	Redis    HealthChecker // nil unless NOTIFIER_BACKEND=redis
}

// NewRouter assembles the gin engine with middleware, routes and static
// serving of uploaded photos.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		// /ws carries the session token as a query parameter; keep it out
		// of access logs
		SkipPaths: []string{"/api/health", "/metrics", "/ws"},
	}))
	r.Use(httpmiddleware.CORS(d.Cfg.FrontendOrigin))
	r.Use(httpmiddleware.SecurityHeaders())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/api/health", healthHandler(d.DB, d.Redis))
	r.Static(d.Cfg.UploadPublicURL, d.Cfg.UploadDir)

	ah := &authHandler{svc: d.Auth}
	loginLimit := httpmiddleware.NewLoginLimiter(d.Cfg.LoginRatePerMin)
	r.POST("/api/auth/register", ah.register)
	r.POST("/api/auth/login", loginLimit.Middleware(), ah.login)

	sh := &studentHandler{svc: d.Students, log: d.Log}
	lh := &logsHandler{logs: d.Logs}
	wh := &wsHandler{hub: d.Hub, secret: d.Cfg.JWTSecret, origin: d.Cfg.FrontendOrigin, log: d.Log}

	protected := r.Group("/api", auth.RequireToken(d.Cfg.JWTSecret))
	{
		protected.GET("/students", sh.list)
		protected.POST("/students", sh.create)
		protected.PUT("/students/:id", sh.update)
		protected.DELETE("/students/:id", sh.remove)
		protected.POST("/students/:id/upload-foto", sh.uploadPhoto)
		protected.GET("/logs", lh.list)
	}

	// websocket clients authenticate via query token, set post-login
	r.GET("/ws", wh.serve)

	return r
}

func healthHandler(db *sql.DB, redis HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			if err := db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "ERROR", "message": "Database unreachable"})
				return
			}
		}
		if redis != nil && !redis.Healthy(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "ERROR", "message": "Realtime backend unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
	}
}
