package order

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to model.OrderStatus
		err      error
	}{
		{model.StatusProcessing, model.StatusShipped, nil},
		{model.StatusProcessing, model.StatusDelivered, nil},
		{model.StatusShipped, model.StatusOutForDelivery, nil},
		{model.StatusOutForDelivery, model.StatusDelivered, nil},
		{model.StatusShipped, model.StatusCancelled, nil},
		{model.StatusOutForDelivery, model.StatusCancelled, nil},
		{model.StatusShipped, model.StatusProcessing, ErrInvalidTransition},
		{model.StatusDelivered, model.StatusCancelled, ErrInvalidTransition},
		{model.StatusDelivered, model.StatusShipped, ErrInvalidTransition},
		{model.StatusCancelled, model.StatusProcessing, ErrInvalidTransition},
		{model.StatusShipped, model.StatusShipped, ErrStatusUnchanged},
		{model.StatusShipped, "returned", ErrUnknownStatus},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			err := CanTransition(tc.from, tc.to)
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestNextStatuses(t *testing.T) {
	assert.Equal(t, []model.OrderStatus{
		model.StatusOutForDelivery,
		model.StatusDelivered,
		model.StatusCancelled,
	}, NextStatuses(model.StatusShipped))
	assert.Empty(t, NextStatuses(model.StatusDelivered))
}

func TestTransitionDeliveredCOD(t *testing.T) {
	now := time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC)
	o := model.Order{
		PaymentInfo: model.PaymentInfo{Method: model.PaymentMethodCOD, Status: "pending"},
		OrderStatus: model.StatusOutForDelivery,
		StatusTimestamps: map[model.OrderStatus]time.Time{
			model.StatusProcessing: now.Add(-48 * time.Hour),
		},
	}

	next, err := Transition(o, model.StatusDelivered, now)
	require.NoError(t, err)

	assert.Equal(t, model.StatusDelivered, next.OrderStatus)
	assert.True(t, next.IsPaid)
	assert.True(t, next.IsDelivered)
	assert.Equal(t, model.PaymentStatusCompleted, next.PaymentInfo.Status)
	require.NotNil(t, next.PaymentInfo.PaidAt)
	assert.Equal(t, now, *next.PaymentInfo.PaidAt)
	assert.Equal(t, now, next.StatusTimestamps[model.StatusDelivered])
	assert.Len(t, next.StatusTimestamps, 2)

	// the input is untouched
	assert.Equal(t, model.StatusOutForDelivery, o.OrderStatus)
	assert.Len(t, o.StatusTimestamps, 1)
	assert.Nil(t, o.PaymentInfo.PaidAt)
}

func TestTransitionDeliveredPrepaid(t *testing.T) {
	paidAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	o := model.Order{
		PaymentInfo: model.PaymentInfo{Method: "razorpay", Status: "captured", PaidAt: &paidAt},
		IsPaid:      true,
		OrderStatus: model.StatusShipped,
	}

	next, err := Transition(o, model.StatusDelivered, paidAt.Add(24*time.Hour))
	require.NoError(t, err)

	assert.True(t, next.IsPaid)
	assert.True(t, next.IsDelivered)
	assert.Equal(t, "captured", next.PaymentInfo.Status)
	assert.Equal(t, paidAt, *next.PaymentInfo.PaidAt)
}

func TestTransitionRecordsTimestampOnly(t *testing.T) {
	now := time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC)
	o := model.Order{OrderStatus: model.StatusProcessing, PaymentInfo: model.PaymentInfo{Method: model.PaymentMethodCOD}}

	next, err := Transition(o, model.StatusCancelled, now)
	require.NoError(t, err)

	assert.Equal(t, map[model.OrderStatus]time.Time{model.StatusCancelled: now}, next.StatusTimestamps)
	assert.False(t, next.IsPaid)
	assert.False(t, next.IsDelivered)
	assert.Empty(t, next.PaymentInfo.Status)
}
