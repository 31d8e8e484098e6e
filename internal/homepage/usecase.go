package homepage

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/homepage/dto"
	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// Search regions. Banner rows use BannerRegion.
const (
	RegionNewBanner = "new-banner"
	RegionFeatured  = "featured"
	RegionOffers    = "offers"
)

func BannerRegion(bannerID string) string { return "banner:" + bannerID }

// View is the state of the homepage screen: the configuration plus the
// catalog the pickers search.
type View struct {
	Homepage model.Homepage
	Products []model.Product
}

type UseCase interface {
	Load(ctx context.Context) error
	View() View
	SearchProducts(region, query string) []model.Product

	AddBanner(ctx context.Context, input *dto.BannerInput) (*model.Banner, error)
	UpdateBanner(ctx context.Context, id string, input *dto.BannerInput) (*model.Banner, error)
	DeleteBanner(ctx context.Context, id string) error
	AttachBannerProduct(ctx context.Context, bannerID, productID string) (*model.Banner, error)
	DetachBannerProduct(ctx context.Context, bannerID string) (*model.Banner, error)

	AddFeatured(ctx context.Context, productID string) error
	RemoveFeatured(ctx context.Context, productID string) error
	AddOffer(ctx context.Context, productID string) error
	RemoveOffer(ctx context.Context, productID string) error

	Close()
}
