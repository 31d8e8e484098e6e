package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/fekuna/omnipos-admin-console/internal/optimistic"
	"github.com/fekuna/omnipos-admin-console/internal/product"
	"github.com/fekuna/omnipos-admin-console/internal/product/dto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	feature        = "products"
	cacheKeyPrefix = "products:list:"
)

type productUseCase struct {
	repo     product.Repository
	cache    *redis.Client
	cacheTTL time.Duration
	mutator  *optimistic.Mutator[[]model.Product]
	logger   logger.ZapLogger
}

// NewProductUseCase builds the product use case. cache may be nil, which
// disables list caching.
func NewProductUseCase(repo product.Repository, cache *redis.Client, cacheTTL time.Duration, observer optimistic.Observer, log logger.ZapLogger) product.UseCase {
	uc := &productUseCase{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
	uc.mutator = optimistic.NewMutator(optimistic.NewState([]model.Product{}), uc.refetch, observer, log)
	return uc
}

// refetch always goes to the backend and rewrites the cached entry, so a
// failed write reconciles against the server and not a stale cache.
func (uc *productUseCase) refetch(ctx context.Context) ([]model.Product, error) {
	return uc.fetch(ctx, &dto.ProductFilters{})
}

func (uc *productUseCase) Load(ctx context.Context) error {
	if err := uc.mutator.Reload(ctx); err != nil {
		uc.logger.Error("failed to load products", zap.Error(err))
		return err
	}
	return nil
}

func (uc *productUseCase) View() []model.Product {
	return uc.mutator.State().Get()
}

func (uc *productUseCase) Close() {
	uc.mutator.State().Close()
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	// 1. Generate Cache Key
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		// 2. Check Cache
		val, err := uc.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var products []model.Product
			if err := json.Unmarshal([]byte(val), &products); err == nil {
				return products, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			uc.logger.Warn("product cache read failed", zap.Error(err))
		}
	}

	// 3. Backend
	return uc.fetch(ctx, filters)
}

func (uc *productUseCase) fetch(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	products, err := uc.repo.ListProducts(ctx, backend.ProductQuery{Sort: filters.SortBy, Limit: filters.Limit})
	if err != nil {
		return nil, err
	}

	// 4. Set Cache
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		if data, err := json.Marshal(products); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, uc.cacheTTL).Err(); err != nil {
				uc.logger.Warn("product cache write failed", zap.Error(err))
			}
		}
	}

	return products, nil
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", cacheKeyPrefix, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	// Invalidate all list caches
	keys, err := uc.cache.Keys(ctx, cacheKeyPrefix+"*").Result()
	if err != nil {
		uc.logger.Warn("product cache invalidation failed", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		uc.cache.Del(ctx, keys...)
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.repo.GetProduct(ctx, id)
}

func (uc *productUseCase) CountProducts(ctx context.Context) (int, error) {
	return uc.repo.CountProducts(ctx)
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.ProductInput) (*model.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	payload := input.Payload()

	p, err := optimistic.Do(ctx, uc.mutator, optimistic.Mutation[[]model.Product, *model.Product]{
		Feature: feature,
		Action:  "create",
		Remote: func(ctx context.Context) (*model.Product, error) {
			p, err := uc.repo.CreateProduct(ctx, payload)
			if err == nil {
				uc.invalidateProductCache(ctx)
			}
			return p, err
		},
		Reconcile: func(list []model.Product, p *model.Product) []model.Product {
			return append(append([]model.Product(nil), list...), *p)
		},
	})
	if err != nil {
		uc.logger.Error("failed to create product", zap.Error(err))
		return nil, err
	}
	uc.logger.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

// UpdateProduct saves the form over product id. When the form does not
// list the images to keep, every current image is kept.
func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, input *dto.ProductInput) (*model.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	payload := input.Payload()
	if payload.ExistingImages == nil {
		current, err := uc.repo.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		payload.ExistingImages = current.Images
	}

	p, err := optimistic.Do(ctx, uc.mutator, optimistic.Mutation[[]model.Product, *model.Product]{
		Feature:  feature,
		Action:   "update",
		EntityID: id,
		Remote: func(ctx context.Context) (*model.Product, error) {
			p, err := uc.repo.UpdateProduct(ctx, id, payload)
			if err == nil {
				uc.invalidateProductCache(ctx)
			}
			return p, err
		},
		Reconcile: func(list []model.Product, p *model.Product) []model.Product {
			out := make([]model.Product, len(list))
			for i := range list {
				out[i] = list[i]
				if list[i].ID == id {
					out[i] = *p
				}
			}
			return out
		},
	})
	if err != nil {
		uc.logger.Error("failed to update product", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	_, err := optimistic.Do(ctx, uc.mutator, optimistic.Mutation[[]model.Product, struct{}]{
		Feature:  feature,
		Action:   "delete",
		EntityID: id,
		Apply: func(list []model.Product) []model.Product {
			out := make([]model.Product, 0, len(list))
			for _, p := range list {
				if p.ID != id {
					out = append(out, p)
				}
			}
			return out
		},
		Remote: func(ctx context.Context) (struct{}, error) {
			err := uc.repo.DeleteProduct(ctx, id)
			if err == nil {
				uc.invalidateProductCache(ctx)
			}
			return struct{}{}, err
		},
	})
	if err != nil {
		uc.logger.Error("failed to delete product", zap.String("product_id", id), zap.Error(err))
		return err
	}
	return nil
}
