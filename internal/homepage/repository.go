package homepage

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// Repository is the backend surface of the homepage screen. *backend.Client
// satisfies it.
type Repository interface {
	GetHomepage(ctx context.Context) (*model.Homepage, error)
	CreateBanner(ctx context.Context, p *backend.BannerPayload) (*model.Banner, error)
	UpdateBanner(ctx context.Context, id string, p *backend.BannerPayload) (*model.Banner, error)
	DeleteBanner(ctx context.Context, id string) error
	UpdateFeatured(ctx context.Context, productID, action string) (*model.Homepage, error)
	UpdateOffers(ctx context.Context, productID, action string) (*model.Homepage, error)

	ListProducts(ctx context.Context, q backend.ProductQuery) ([]model.Product, error)
	PriceDetails(ctx context.Context, productID string, selection map[string]string) (*model.PriceDetails, error)
}
