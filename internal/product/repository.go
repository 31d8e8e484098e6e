package product

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// Repository is the backend product API. *backend.Client satisfies it.
type Repository interface {
	ListProducts(ctx context.Context, q backend.ProductQuery) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CountProducts(ctx context.Context) (int, error)
	CreateProduct(ctx context.Context, p *backend.ProductPayload) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, p *backend.ProductPayload) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
