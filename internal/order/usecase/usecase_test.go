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
	"github.com/fekuna/omnipos-admin-console/internal/optimistic"
	"github.com/fekuna/omnipos-admin-console/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type admin bool

func (a admin) IsAdmin() bool { return bool(a) }

type outcomes []optimistic.Outcome

func (o *outcomes) Observe(_ context.Context, out optimistic.Outcome) { *o = append(*o, out) }

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*backendtest.Twin, *orderUseCase, *outcomes) {
	t.Helper()
	tw, url := backendtest.NewServer(t, "tok")
	tw.Now = func() time.Time { return now }
	client := backend.NewClient(url, 5*time.Second, staticToken("tok"), logger.NewNop())
	obs := &outcomes{}
	uc := NewOrderUseCase(client, admin(true), obs, logger.NewNop()).(*orderUseCase)
	uc.now = func() time.Time { return now }
	return tw, uc, obs
}

func seed(tw *backendtest.Twin) {
	tw.AddOrder(model.Order{BaseModel: model.BaseModel{ID: "ord_aa11"}, OrderStatus: model.StatusProcessing,
		PaymentInfo: model.PaymentInfo{Method: model.PaymentMethodCOD, Status: "pending"}})
	tw.AddOrder(model.Order{BaseModel: model.BaseModel{ID: "ord_aa22"}, OrderStatus: model.StatusOutForDelivery,
		PaymentInfo: model.PaymentInfo{Method: model.PaymentMethodCOD, Status: "pending"}})
	tw.AddOrder(model.Order{BaseModel: model.BaseModel{ID: "ord_bb33"}, OrderStatus: model.StatusShipped, IsPaid: true,
		PaymentInfo: model.PaymentInfo{Method: "razorpay", Status: "captured"}})
}

func TestLoadAndGroup(t *testing.T) {
	tw, uc, _ := setup(t)
	seed(tw)

	require.NoError(t, uc.Load(context.Background()))

	groups := uc.ByStatus()
	assert.Len(t, groups, len(model.OrderStatuses))
	assert.Len(t, groups[model.StatusProcessing], 1)
	assert.Len(t, groups[model.StatusShipped], 1)
	assert.Empty(t, groups[model.StatusDelivered])
	assert.Equal(t, model.StatusProcessing, uc.View().ActiveTab)

	_, ok := tw.LastRequest(http.MethodGet, "/orders/admin")
	assert.True(t, ok)
}

func TestSearch(t *testing.T) {
	tw, uc, _ := setup(t)
	seed(tw)
	require.NoError(t, uc.Load(context.Background()))

	_, err := uc.Search("  ")
	assert.Equal(t, "Please enter an order ID", apperr.PublicMessage(err))

	_, err = uc.Search("zz")
	assert.Equal(t, "No orders found with this ID", apperr.PublicMessage(err))

	_, err = uc.Search("AA")
	assert.Equal(t, "Multiple orders found. Please refine your search.", apperr.PublicMessage(err))

	o, err := uc.Search("BB3")
	require.NoError(t, err)
	assert.Equal(t, "ord_bb33", o.ID)
	assert.Equal(t, model.StatusShipped, uc.View().ActiveTab)
}

func TestSetActiveTab(t *testing.T) {
	_, uc, _ := setup(t)
	require.NoError(t, uc.SetActiveTab(model.StatusCancelled))
	assert.Equal(t, model.StatusCancelled, uc.View().ActiveTab)
	assert.True(t, apperr.Is(uc.SetActiveTab("lost"), apperr.Invalid))
}

func TestUpdateStatusDeliveredCOD(t *testing.T) {
	tw, uc, obs := setup(t)
	seed(tw)
	ctx := context.Background()
	require.NoError(t, uc.Load(ctx))

	updated, err := uc.UpdateStatus(ctx, "ord_aa22", model.StatusDelivered)
	require.NoError(t, err)

	assert.True(t, updated.IsPaid)
	assert.True(t, updated.IsDelivered)
	assert.Equal(t, model.PaymentStatusCompleted, updated.PaymentInfo.Status)
	require.NotNil(t, updated.PaymentInfo.PaidAt)
	assert.True(t, now.Equal(*updated.PaymentInfo.PaidAt))

	req, ok := tw.LastRequest(http.MethodPut, "/orders/ord_aa22")
	require.True(t, ok)
	assert.Equal(t, "delivered", req.JSON["orderStatus"])
	assert.Equal(t, true, req.JSON["isPaid"])

	v := uc.View()
	assert.Equal(t, model.StatusDelivered, v.ActiveTab)
	require.NotNil(t, v.Selected)
	assert.Equal(t, model.StatusDelivered, v.Selected.OrderStatus)
	assert.Len(t, uc.ByStatus()[model.StatusDelivered], 1)
	assert.Equal(t, optimistic.Reconciled, (*obs)[len(*obs)-1].Result)
}

func TestUpdateStatusPrepaidKeepsPayment(t *testing.T) {
	tw, uc, _ := setup(t)
	seed(tw)
	ctx := context.Background()
	require.NoError(t, uc.Load(ctx))

	updated, err := uc.UpdateStatus(ctx, "ord_bb33", model.StatusDelivered)
	require.NoError(t, err)

	assert.True(t, updated.IsPaid)
	assert.True(t, updated.IsDelivered)
	assert.Equal(t, "captured", updated.PaymentInfo.Status)
	assert.Nil(t, updated.PaymentInfo.PaidAt)
}

func TestUpdateStatusRejectsIllegalMoves(t *testing.T) {
	tw, uc, _ := setup(t)
	seed(tw)
	ctx := context.Background()
	require.NoError(t, uc.Load(ctx))

	_, err := uc.UpdateStatus(ctx, "ord_bb33", model.StatusProcessing)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.True(t, apperr.Is(err, apperr.Invalid))

	_, err = uc.UpdateStatus(ctx, "ord_bb33", model.StatusShipped)
	require.ErrorIs(t, err, order.ErrStatusUnchanged)

	_, ok := tw.LastRequest(http.MethodPut, "/orders/")
	assert.False(t, ok)
}

func TestUpdateStatusFailureReconciles(t *testing.T) {
	tw, uc, obs := setup(t)
	seed(tw)
	ctx := context.Background()
	require.NoError(t, uc.Load(ctx))
	tw.Fail(http.MethodPut, "/orders/ord_aa11", http.StatusInternalServerError, "Order update failed")

	_, err := uc.UpdateStatus(ctx, "ord_aa11", model.StatusShipped)
	require.Error(t, err)
	assert.Equal(t, "Order update failed", apperr.PublicMessage(err))

	groups := uc.ByStatus()
	assert.Len(t, groups[model.StatusProcessing], 1)
	assert.Len(t, groups[model.StatusShipped], 1)
	stored, _ := tw.Order("ord_aa11")
	assert.Equal(t, model.StatusProcessing, stored.OrderStatus)
	assert.Equal(t, optimistic.Reverted, (*obs)[len(*obs)-1].Result)
}

func TestOpenFetchesUnknownOrder(t *testing.T) {
	tw, uc, _ := setup(t)
	seed(tw)

	o, err := uc.Open(context.Background(), "ord_bb33")
	require.NoError(t, err)
	assert.Equal(t, "ord_bb33", o.ID)

	_, err = uc.Open(context.Background(), "ord_missing")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestCompletionAfterCloseIsIgnored(t *testing.T) {
	tw, uc, _ := setup(t)
	seed(tw)
	ctx := context.Background()
	require.NoError(t, uc.Load(ctx))
	uc.Close()

	_, err := uc.UpdateStatus(ctx, "ord_aa11", model.StatusShipped)
	require.NoError(t, err)
	assert.Len(t, uc.ByStatus()[model.StatusProcessing], 1)
}
