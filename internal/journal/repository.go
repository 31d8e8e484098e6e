package journal

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/model"
)

type Filters struct {
	Feature  string
	EntityID string
	Limit    int
}

type Repository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, e *model.JournalEntry) error
	FindAll(ctx context.Context, f *Filters) ([]model.JournalEntry, error)
}
