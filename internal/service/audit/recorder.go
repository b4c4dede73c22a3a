package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/metrics"
)

const writeTimeout = 5 * time.Second

type recorderImpl struct {
	repo    audit.AuditRepository
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewRecorder writes entries to the audit log channel and persists them with
// repo. A nil repo only logs.
func NewRecorder(repo audit.AuditRepository, logger *slog.Logger, m *metrics.Metrics) audit.Recorder {
	return &recorderImpl{
		repo:    repo,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Record implements audit.Recorder.
func (r *recorderImpl) Record(ctx context.Context, entries ...audit.Entry) {
	if len(entries) == 0 {
		return
	}

	now := r.now().UTC()
	for i := range entries {
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
		r.log(ctx, entries[i])
	}

	if r.repo == nil {
		r.metrics.ObserveAudit("logged", len(entries))
		return
	}

	// The business operation has already finished; a cancelled request must
	// not drop its trail.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := r.repo.InsertMany(writeCtx, entries); err != nil {
		r.logger.ErrorContext(ctx, "failed to persist audit entries",
			slog.Int("count", len(entries)),
			slog.String("action_type", string(entries[0].ActionType)),
			slog.String("error", err.Error()),
		)
		r.metrics.ObserveAudit("failed", len(entries))
		return
	}

	r.metrics.ObserveAudit("written", len(entries))
}

func (r *recorderImpl) log(ctx context.Context, e audit.Entry) {
	attrs := []slog.Attr{
		slog.String("actor_id", e.ActorID),
		slog.String("actor_role", e.ActorRole),
		slog.String("action_type", string(e.ActionType)),
		slog.String("target_table", e.TargetTable),
		slog.String("target_id", e.TargetID),
		slog.String("status", string(e.Status)),
	}
	if len(e.Changes) > 0 {
		attrs = append(attrs, slog.Any("changes", e.Changes))
	}

	level := slog.LevelInfo
	if e.Status == audit.StatusFailure {
		level = slog.LevelWarn
		if e.ErrorMessage != nil {
			attrs = append(attrs, slog.String("error", *e.ErrorMessage))
		}
	}

	r.logger.LogAttrs(ctx, level, "audit", attrs...)
}
