package usecase

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/dashboard"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const recentProductsLimit = 4

type dashboardUseCase struct {
	repo   dashboard.Repository
	logger logger.ZapLogger
}

func NewDashboardUseCase(repo dashboard.Repository, log logger.ZapLogger) dashboard.UseCase {
	return &dashboardUseCase{
		repo:   repo,
		logger: log,
	}
}

func zeroStats() *model.DashboardStats {
	return &model.DashboardStats{
		RecentProducts: []model.Product{},
		RecentOrders:   []model.Order{},
	}
}

func (uc *dashboardUseCase) Stats(ctx context.Context) (*model.DashboardStats, error) {
	stats := zeroStats()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = uc.repo.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = uc.repo.CountProducts(ctx)
		return err
	})
	g.Go(func() error {
		products, err := uc.repo.ListProducts(ctx, backend.ProductQuery{Sort: "-createdAt", Limit: recentProductsLimit})
		if products != nil {
			stats.RecentProducts = products
		}
		return err
	})
	g.Go(func() (err error) {
		stats.TotalOrders, err = uc.repo.CountOrders(ctx)
		return err
	})
	g.Go(func() error {
		orders, err := uc.repo.RecentOrders(ctx)
		if orders != nil {
			stats.RecentOrders = orders
		}
		return err
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("failed to load dashboard stats", zap.Error(err))
		return zeroStats(), err
	}
	return stats, nil
}
