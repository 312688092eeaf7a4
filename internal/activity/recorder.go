package activity

import (
	"context"

	"go.uber.org/zap"

	"studentadmin/internal/metrics"
	"studentadmin/internal/observability"
)

// Appender is the persistence seam for the Recorder.
type Appender interface {
	Insert(ctx context.Context, e Entry) error
}

// Recorder writes audit entries best-effort: a failed write is logged for
// operator visibility and dropped. It never fails or blocks the mutation
// that triggered it.
type Recorder struct {
	repo Appender
	log  *zap.Logger
}

func NewRecorder(repo Appender, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{repo: repo, log: log}
}

// Record appends one entry. An empty actor is captioned as Sistem.
func (r *Recorder) Record(ctx context.Context, actor, action string, entityID int64, details string) {
	if actor == "" {
		actor = DefaultActor
	}
	err := r.repo.Insert(ctx, Entry{
		UserName: actor,
		Action:   action,
		EntityID: entityID,
		Details:  details,
	})
	if err != nil {
		metrics.AuditFailures.Inc()
		observability.CaptureErr(err)
		r.log.Error("activity log write failed",
			zap.String("actor", actor),
			zap.String("action", action),
			zap.Int64("entity_id", entityID),
			zap.Error(err))
	}
}
