package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/model"
)

type UseCase interface {
	// Stats reads every figure at once. On any failure it returns zeroed
	// stats together with the error.
	Stats(ctx context.Context) (*model.DashboardStats, error)
}
