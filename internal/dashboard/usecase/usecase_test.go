package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/backend/backendtest"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func setup(t *testing.T) (*backendtest.Twin, *dashboardUseCase) {
	t.Helper()
	tw, url := backendtest.NewServer(t, "tok")
	client := backend.NewClient(url, 5*time.Second, staticToken("tok"), logger.NewNop())
	return tw, NewDashboardUseCase(client, logger.NewNop()).(*dashboardUseCase)
}

func TestStats(t *testing.T) {
	tw, uc := setup(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tw.SetUsers(42)
	for i := 0; i < 6; i++ {
		tw.AddProduct(model.Product{Name: "P", BaseModel: model.BaseModel{CreatedAt: base.Add(time.Duration(i) * time.Hour)}})
	}
	tw.AddOrder(model.Order{OrderStatus: model.StatusProcessing})
	tw.AddOrder(model.Order{OrderStatus: model.StatusShipped})

	stats, err := uc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalUsers)
	assert.Equal(t, 6, stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Len(t, stats.RecentProducts, recentProductsLimit)
	assert.Len(t, stats.RecentOrders, 2)

	req, ok := tw.LastRequest(http.MethodGet, "/products")
	require.True(t, ok)
	assert.Equal(t, "/products", req.Path)
}

func TestStatsZeroedOnFailure(t *testing.T) {
	tw, uc := setup(t)
	tw.SetUsers(42)
	tw.AddProduct(model.Product{Name: "P"})
	tw.Fail(http.MethodGet, "/orders/order-count", http.StatusInternalServerError, "db down")

	stats, err := uc.Stats(context.Background())

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Backend))
	assert.Equal(t, 0, stats.TotalUsers)
	assert.Equal(t, 0, stats.TotalProducts)
	assert.Empty(t, stats.RecentProducts)
	assert.NotNil(t, stats.RecentOrders)
}
