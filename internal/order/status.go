package order

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/model"
)

var (
	ErrStatusUnchanged   = errors.New("order already has this status")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
)

var rank = map[model.OrderStatus]int{
	model.StatusProcessing:     0,
	model.StatusShipped:        1,
	model.StatusOutForDelivery: 2,
	model.StatusDelivered:      3,
}

// CanTransition reports whether an order in from may move to to. Orders
// only move forward, possibly skipping steps, and can be cancelled until
// they are delivered. Delivered and cancelled are final.
func CanTransition(from, to model.OrderStatus) error {
	if !Valid(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if from == to {
		return ErrStatusUnchanged
	}
	if IsTerminal(from) {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, from)
	}
	if to == model.StatusCancelled {
		return nil
	}
	fromRank, ok := rank[from]
	if !ok || rank[to] < fromRank {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func Valid(s model.OrderStatus) bool {
	for _, v := range model.OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func IsTerminal(s model.OrderStatus) bool {
	return s == model.StatusDelivered || s == model.StatusCancelled
}

// NextStatuses lists the statuses o may move to, in tab order.
func NextStatuses(from model.OrderStatus) []model.OrderStatus {
	var out []model.OrderStatus
	for _, s := range model.OrderStatuses {
		if CanTransition(from, s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// Transition returns a copy of o moved to status to, with the bookkeeping
// the backend performs for the same move. o is not modified.
func Transition(o model.Order, to model.OrderStatus, now time.Time) (model.Order, error) {
	if err := CanTransition(o.OrderStatus, to); err != nil {
		return o, err
	}

	next := o
	next.OrderStatus = to
	next.StatusTimestamps = maps.Clone(o.StatusTimestamps)
	if next.StatusTimestamps == nil {
		next.StatusTimestamps = map[model.OrderStatus]time.Time{}
	}
	next.StatusTimestamps[to] = now

	if to == model.StatusDelivered {
		next.IsPaid = true
		next.IsDelivered = true
		if o.PaymentInfo.Method == model.PaymentMethodCOD {
			paidAt := now
			next.PaymentInfo.Status = model.PaymentStatusCompleted
			next.PaymentInfo.PaidAt = &paidAt
		}
	}
	return next, nil
}
