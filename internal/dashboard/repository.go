package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// Repository is everything the dashboard reads. *backend.Client satisfies it.
type Repository interface {
	CountUsers(ctx context.Context) (int, error)
	CountProducts(ctx context.Context) (int, error)
	ListProducts(ctx context.Context, q backend.ProductQuery) ([]model.Product, error)
	CountOrders(ctx context.Context) (int, error)
	RecentOrders(ctx context.Context) ([]model.Order, error)
}
