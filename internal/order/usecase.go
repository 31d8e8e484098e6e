package order

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// View is the state of the order management screen.
type View struct {
	Orders    []model.Order
	ActiveTab model.OrderStatus
	Selected  *model.Order
}

type UseCase interface {
	Load(ctx context.Context) error
	// Refresh refetches the list, keeping the active tab.
	Refresh(ctx context.Context) error
	View() View
	ByStatus() map[model.OrderStatus][]model.Order
	SetActiveTab(s model.OrderStatus) error
	Search(query string) (*model.Order, error)
	Open(ctx context.Context, id string) (*model.Order, error)
	UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error)
	Close()
}
