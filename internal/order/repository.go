package order

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// Repository is the backend surface the order views need. *backend.Client
// satisfies it.
type Repository interface {
	ListOrders(ctx context.Context, admin bool) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, u backend.OrderStatusUpdate) (*model.Order, error)
}
