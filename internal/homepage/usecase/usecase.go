package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/catalog"
	"github.com/fekuna/omnipos-admin-console/internal/homepage"
	"github.com/fekuna/omnipos-admin-console/internal/homepage/dto"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/fekuna/omnipos-admin-console/internal/optimistic"
	"go.uber.org/zap"
)

const (
	featureBanners  = "banners"
	featureFeatured = "featured"
	featureOffers   = "offers"
)

type homepageUseCase struct {
	repo    homepage.Repository
	mutator *optimistic.Mutator[homepage.View]
	regions *catalog.Regions
	logger  logger.ZapLogger
	tempSeq atomic.Int64
}

func NewHomepageUseCase(repo homepage.Repository, observer optimistic.Observer, log logger.ZapLogger) homepage.UseCase {
	uc := &homepageUseCase{
		repo:    repo,
		regions: catalog.NewRegions(),
		logger:  log,
	}
	uc.mutator = optimistic.NewMutator(optimistic.NewState(homepage.View{}), uc.refetch, observer, log)
	return uc
}

func (uc *homepageUseCase) refetch(ctx context.Context) (homepage.View, error) {
	h, err := uc.repo.GetHomepage(ctx)
	if err != nil {
		return homepage.View{}, err
	}
	h.TodayOffers = uc.priceOffers(ctx, h.TodayOffers, nil)

	products, err := uc.repo.ListProducts(ctx, backend.ProductQuery{})
	if err != nil {
		return homepage.View{}, err
	}
	return homepage.View{Homepage: *h, Products: products}, nil
}

// priceOffers attaches a price snapshot to every offer. Snapshots in known
// are reused; a failed lookup prices the offer at zero.
func (uc *homepageUseCase) priceOffers(ctx context.Context, offers []model.Product, known map[string]*model.PriceSnapshot) []model.Product {
	out := make([]model.Product, len(offers))
	for i, p := range offers {
		out[i] = p
		if s, ok := known[p.ID]; ok && s != nil {
			out[i].Pricing = s
			continue
		}
		d, err := uc.repo.PriceDetails(ctx, p.ID, p.DefaultSelection())
		if err != nil {
			uc.logger.Warn("failed to price offer", zap.String("product_id", p.ID), zap.Error(err))
			d = nil
		}
		out[i].Pricing = homepage.Snapshot(d)
	}
	return out
}

func (uc *homepageUseCase) Load(ctx context.Context) error {
	if err := uc.mutator.Reload(ctx); err != nil {
		uc.logger.Error("failed to load homepage", zap.Error(err))
		return err
	}
	return nil
}

func (uc *homepageUseCase) View() homepage.View {
	return uc.mutator.State().Get()
}

func (uc *homepageUseCase) SearchProducts(region, query string) []model.Product {
	return uc.regions.Get(region).Search(uc.View().Products, query)
}

func (uc *homepageUseCase) Close() {
	uc.mutator.State().Close()
}

// --- banners ---

func (uc *homepageUseCase) AddBanner(ctx context.Context, input *dto.BannerInput) (*model.Banner, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	view := uc.View()
	temp := model.Banner{
		ID:          fmt.Sprintf("temp-%d", uc.tempSeq.Add(1)),
		Title:       input.Title,
		Description: input.Description,
	}
	if input.ProductID != "" {
		p, ok := findProduct(view.Products, input.ProductID)
		if !ok {
			return nil, apperr.NotFoundErr("Product not found")
		}
		temp.SearchProduct = &p
	}

	payload := &backend.BannerPayload{
		Title:           input.Title,
		Description:     input.Description,
		Upload:          input.Image,
		SearchProductID: input.ProductID,
	}

	created, err := optimistic.Do(ctx, uc.mutator, optimistic.Mutation[homepage.View, *model.Banner]{
		Feature:  featureBanners,
		Action:   "add",
		EntityID: temp.ID,
		Apply: func(v homepage.View) homepage.View {
			v.Homepage.Banners = append(cloneBanners(v.Homepage.Banners), temp)
			return v
		},
		Remote: func(ctx context.Context) (*model.Banner, error) {
			return uc.repo.CreateBanner(ctx, payload)
		},
		Reconcile: func(v homepage.View, b *model.Banner) homepage.View {
			return replaceBanner(v, temp.ID, *b)
		},
	})
	if err != nil {
		uc.logger.Error("failed to add banner", zap.Error(err))
		return nil, err
	}
	uc.regions.Drop(homepage.RegionNewBanner)
	return created, nil
}

func (uc *homepageUseCase) UpdateBanner(ctx context.Context, id string, input *dto.BannerInput) (*model.Banner, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	current, ok := uc.View().Homepage.Banner(id)
	if !ok {
		return nil, apperr.NotFoundErr("Banner not found")
	}

	payload := &backend.BannerPayload{
		Title:       input.Title,
		Description: input.Description,
		Upload:      input.Image,
	}
	if input.Image == nil {
		payload.ImageRef = current.Image
	}
	if current.SearchProduct != nil {
		payload.SearchProductID = current.SearchProduct.ID
	}

	edited := current
	edited.Title = input.Title
	edited.Description = input.Description

	return uc.sendBanner(ctx, "update", current, edited, payload)
}

func (uc *homepageUseCase) DeleteBanner(ctx context.Context, id string) error {
	banners := uc.View().Homepage.Banners
	if _, ok := findBanner(banners, id); !ok {
		return apperr.NotFoundErr("Banner not found")
	}
	if len(banners) <= 1 {
		return apperr.InvalidErr("banner", "At least one banner is required")
	}

	_, err := optimistic.Do(ctx, uc.mutator, optimistic.Mutation[homepage.View, struct{}]{
		Feature:  featureBanners,
		Action:   "delete",
		EntityID: id,
		Apply: func(v homepage.View) homepage.View {
			out := make([]model.Banner, 0, len(v.Homepage.Banners))
			for _, b := range v.Homepage.Banners {
				if b.ID != id {
					out = append(out, b)
				}
			}
			v.Homepage.Banners = out
			return v
		},
		Remote: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, uc.repo.DeleteBanner(ctx, id)
		},
	})
	if err != nil {
		uc.logger.Error("failed to delete banner", zap.String("banner_id", id), zap.Error(err))
		return err
	}
	uc.regions.Drop(homepage.BannerRegion(id))
	return nil
}

func (uc *homepageUseCase) AttachBannerProduct(ctx context.Context, bannerID, productID string) (*model.Banner, error) {
	view := uc.View()
	current, ok := view.Homepage.Banner(bannerID)
	if !ok {
		return nil, apperr.NotFoundErr("Banner not found")
	}
	p, ok := findProduct(view.Products, productID)
	if !ok {
		return nil, apperr.NotFoundErr("Product not found")
	}

	edited := current
	edited.SearchProduct = &p
	b, err := uc.sendBanner(ctx, "attach-product", current, edited, &backend.BannerPayload{
		Title:           current.Title,
		Description:     current.Description,
		ImageRef:        current.Image,
		SearchProductID: productID,
	})
	if err == nil {
		uc.regions.Get(homepage.BannerRegion(bannerID)).Reset()
	}
	return b, err
}

func (uc *homepageUseCase) DetachBannerProduct(ctx context.Context, bannerID string) (*model.Banner, error) {
	current, ok := uc.View().Homepage.Banner(bannerID)
	if !ok {
		return nil, apperr.NotFoundErr("Banner not found")
	}

	edited := current
	edited.SearchProduct = nil
	return uc.sendBanner(ctx, "detach-product", current, edited, &backend.BannerPayload{
		Title:       current.Title,
		Description: current.Description,
		ImageRef:    current.Image,
	})
}

// sendBanner runs a banner update. The backend may answer without an image
// url; the image the banner had is kept then.
func (uc *homepageUseCase) sendBanner(ctx context.Context, action string, current, edited model.Banner, payload *backend.BannerPayload) (*model.Banner, error) {
	updated, err := optimistic.Do(ctx, uc.mutator, optimistic.Mutation[homepage.View, *model.Banner]{
		Feature:  featureBanners,
		Action:   action,
		EntityID: current.ID,
		Apply: func(v homepage.View) homepage.View {
			return replaceBanner(v, current.ID, edited)
		},
		Remote: func(ctx context.Context) (*model.Banner, error) {
			b, err := uc.repo.UpdateBanner(ctx, current.ID, payload)
			if err != nil {
				return nil, err
			}
			if b.Image == "" {
				b.Image = current.Image
			}
			return b, nil
		},
		Reconcile: func(v homepage.View, b *model.Banner) homepage.View {
			return replaceBanner(v, current.ID, *b)
		},
	})
	if err != nil {
		uc.logger.Error("failed to update banner",
			zap.String("banner_id", current.ID),
			zap.String("action", action),
			zap.Error(err),
		)
		return nil, err
	}
	return updated, nil
}

// --- featured products and today's offers ---

func (uc *homepageUseCase) AddFeatured(ctx context.Context, productID string) error {
	view := uc.View()
	if view.Homepage.IsFeatured(productID) {
		return nil
	}
	p, ok := findProduct(view.Products, productID)
	if !ok {
		return apperr.NotFoundErr("Product not found")
	}
	return uc.updateList(ctx, featureFeatured, backend.ActionAdd, productID, func(h *model.Homepage) {
		h.FeaturedProducts = append(cloneProducts(h.FeaturedProducts), p)
	})
}

func (uc *homepageUseCase) RemoveFeatured(ctx context.Context, productID string) error {
	if !uc.View().Homepage.IsFeatured(productID) {
		return nil
	}
	return uc.updateList(ctx, featureFeatured, backend.ActionRemove, productID, func(h *model.Homepage) {
		h.FeaturedProducts = withoutProduct(h.FeaturedProducts, productID)
	})
}

// AddOffer prices the product before showing it so the offer card is
// complete from the start.
func (uc *homepageUseCase) AddOffer(ctx context.Context, productID string) error {
	view := uc.View()
	if view.Homepage.IsOffer(productID) {
		return nil
	}
	p, ok := findProduct(view.Products, productID)
	if !ok {
		return apperr.NotFoundErr("Product not found")
	}
	d, err := uc.repo.PriceDetails(ctx, productID, p.DefaultSelection())
	if err != nil {
		uc.logger.Error("failed to price offer", zap.String("product_id", productID), zap.Error(err))
		return err
	}
	p.Pricing = homepage.Snapshot(d)

	return uc.updateList(ctx, featureOffers, backend.ActionAdd, productID, func(h *model.Homepage) {
		h.TodayOffers = append(cloneProducts(h.TodayOffers), p)
	})
}

func (uc *homepageUseCase) RemoveOffer(ctx context.Context, productID string) error {
	if !uc.View().Homepage.IsOffer(productID) {
		return nil
	}
	return uc.updateList(ctx, featureOffers, backend.ActionRemove, productID, func(h *model.Homepage) {
		h.TodayOffers = withoutProduct(h.TodayOffers, productID)
	})
}

// updateList sends a featured or offers change. The backend answers with
// the whole homepage; offer pricing is carried over from the local copy.
func (uc *homepageUseCase) updateList(ctx context.Context, feature, action, productID string, apply func(*model.Homepage)) error {
	send := uc.repo.UpdateFeatured
	if feature == featureOffers {
		send = uc.repo.UpdateOffers
	}

	_, err := optimistic.Do(ctx, uc.mutator, optimistic.Mutation[homepage.View, *model.Homepage]{
		Feature:  feature,
		Action:   action,
		EntityID: productID,
		Apply: func(v homepage.View) homepage.View {
			apply(&v.Homepage)
			return v
		},
		Remote: func(ctx context.Context) (*model.Homepage, error) {
			h, err := send(ctx, productID, action)
			if err != nil {
				return nil, err
			}
			known := pricingOf(uc.View().Homepage.TodayOffers)
			h.TodayOffers = uc.priceOffers(ctx, h.TodayOffers, known)
			return h, nil
		},
		Reconcile: func(v homepage.View, h *model.Homepage) homepage.View {
			v.Homepage = *h
			return v
		},
	})
	if err != nil {
		uc.logger.Error("failed to update homepage list",
			zap.String("list", feature),
			zap.String("action", action),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return err
	}
	uc.regions.Get(feature).Reset()
	return nil
}

func pricingOf(offers []model.Product) map[string]*model.PriceSnapshot {
	known := make(map[string]*model.PriceSnapshot, len(offers))
	for _, p := range offers {
		if p.Pricing != nil {
			known[p.ID] = p.Pricing
		}
	}
	return known
}

func findProduct(products []model.Product, id string) (model.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func findBanner(banners []model.Banner, id string) (model.Banner, bool) {
	for _, b := range banners {
		if b.ID == id {
			return b, true
		}
	}
	return model.Banner{}, false
}

func replaceBanner(v homepage.View, id string, b model.Banner) homepage.View {
	banners := cloneBanners(v.Homepage.Banners)
	for i := range banners {
		if banners[i].ID == id {
			banners[i] = b
		}
	}
	v.Homepage.Banners = banners
	return v
}

func withoutProduct(list []model.Product, id string) []model.Product {
	out := make([]model.Product, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func cloneBanners(b []model.Banner) []model.Banner {
	return append([]model.Banner(nil), b...)
}

func cloneProducts(p []model.Product) []model.Product {
	return append([]model.Product(nil), p...)
}
