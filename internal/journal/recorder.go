package journal

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/fekuna/omnipos-admin-console/internal/optimistic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder writes mutation outcomes to the journal. Applied steps are
// skipped; only how a mutation ended is interesting afterwards.
type Recorder struct {
	repo   Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewRecorder(repo Repository, log logger.ZapLogger) *Recorder {
	return &Recorder{repo: repo, logger: log, now: time.Now}
}

func (r *Recorder) Observe(ctx context.Context, o optimistic.Outcome) {
	if o.Result == optimistic.Applied {
		return
	}
	e := &model.JournalEntry{
		ID:        uuid.New().String(),
		Feature:   o.Feature,
		Action:    o.Action,
		EntityID:  o.EntityID,
		Result:    string(o.Result),
		CreatedAt: r.now().UTC(),
	}
	if o.Err != nil {
		msg := o.Err.Error()
		e.Error = &msg
	}
	// the journal must never fail a mutation
	if err := r.repo.Create(context.WithoutCancel(ctx), e); err != nil {
		r.logger.Error("failed to write journal entry",
			zap.String("feature", o.Feature),
			zap.String("entity_id", o.EntityID),
			zap.Error(err),
		)
	}
}

func (r *Recorder) Recent(ctx context.Context, f *Filters) ([]model.JournalEntry, error) {
	return r.repo.FindAll(ctx, f)
}
