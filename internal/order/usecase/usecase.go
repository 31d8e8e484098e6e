package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/fekuna/omnipos-admin-console/internal/optimistic"
	"github.com/fekuna/omnipos-admin-console/internal/order"
	"go.uber.org/zap"
)

const feature = "orders"

// AdminChecker tells whether the current session may see every order.
// *auth.Session satisfies it.
type AdminChecker interface {
	IsAdmin() bool
}

type orderUseCase struct {
	repo    order.Repository
	session AdminChecker
	mutator *optimistic.Mutator[order.View]
	logger  logger.ZapLogger
	now     func() time.Time
}

func NewOrderUseCase(repo order.Repository, session AdminChecker, observer optimistic.Observer, log logger.ZapLogger) order.UseCase {
	uc := &orderUseCase{
		repo:    repo,
		session: session,
		logger:  log,
		now:     time.Now,
	}
	state := optimistic.NewState(order.View{ActiveTab: model.StatusProcessing})
	uc.mutator = optimistic.NewMutator(state, uc.refetch, observer, log)
	return uc
}

// refetch reads the list again but keeps what the operator is looking at.
func (uc *orderUseCase) refetch(ctx context.Context) (order.View, error) {
	orders, err := uc.repo.ListOrders(ctx, uc.session.IsAdmin())
	if err != nil {
		return order.View{}, err
	}
	current := uc.mutator.State().Get()
	v := order.View{Orders: orders, ActiveTab: current.ActiveTab}
	if current.Selected != nil {
		if o, ok := find(orders, current.Selected.ID); ok {
			v.Selected = &o
		}
	}
	return v, nil
}

func (uc *orderUseCase) Load(ctx context.Context) error {
	if err := uc.mutator.Reload(ctx); err != nil {
		uc.logger.Error("failed to load orders", zap.Error(err))
		return err
	}
	return nil
}

func (uc *orderUseCase) Refresh(ctx context.Context) error {
	return uc.Load(ctx)
}

func (uc *orderUseCase) View() order.View {
	return uc.mutator.State().Get()
}

// ByStatus groups the loaded orders by status. Every status has an entry.
func (uc *orderUseCase) ByStatus() map[model.OrderStatus][]model.Order {
	out := make(map[model.OrderStatus][]model.Order, len(model.OrderStatuses))
	for _, s := range model.OrderStatuses {
		out[s] = []model.Order{}
	}
	for _, o := range uc.View().Orders {
		out[o.OrderStatus] = append(out[o.OrderStatus], o)
	}
	return out
}

func (uc *orderUseCase) SetActiveTab(s model.OrderStatus) error {
	if !order.Valid(s) {
		return apperr.InvalidErr("status", "Unknown order status "+string(s))
	}
	uc.mutator.State().Update(func(v order.View) order.View {
		v.ActiveTab = s
		return v
	})
	return nil
}

// Search looks up an order by a fragment of its id. A single match switches
// the active tab to that order's status.
func (uc *orderUseCase) Search(query string) (*model.Order, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, apperr.InvalidErr("query", "Please enter an order ID")
	}

	var matched []model.Order
	for _, o := range uc.View().Orders {
		if strings.Contains(strings.ToLower(o.ID), q) {
			matched = append(matched, o)
		}
	}

	switch len(matched) {
	case 0:
		return nil, apperr.NotFoundErr("No orders found with this ID")
	case 1:
		found := matched[0]
		uc.mutator.State().Update(func(v order.View) order.View {
			v.ActiveTab = found.OrderStatus
			return v
		})
		return &found, nil
	default:
		return nil, apperr.InvalidErr("query", "Multiple orders found. Please refine your search.")
	}
}

// Open selects an order for the detail view, reading it from the backend
// when it is not in the loaded list.
func (uc *orderUseCase) Open(ctx context.Context, id string) (*model.Order, error) {
	o, ok := find(uc.View().Orders, id)
	if !ok {
		fetched, err := uc.repo.GetOrder(ctx, id)
		if err != nil {
			uc.logger.Error("failed to fetch order", zap.String("order_id", id), zap.Error(err))
			return nil, err
		}
		o = *fetched
	}
	uc.mutator.State().Update(func(v order.View) order.View {
		v.Selected = &o
		return v
	})
	return &o, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error) {
	current, err := uc.Open(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := order.Transition(*current, to, uc.now())
	if err != nil {
		return nil, transitionErr(err)
	}

	update := backend.OrderStatusUpdate{OrderStatus: to}
	if to == model.StatusDelivered {
		paid := true
		update.IsPaid = &paid
	}

	updated, err := optimistic.Do(ctx, uc.mutator, optimistic.Mutation[order.View, *model.Order]{
		Feature:  feature,
		Action:   "status:" + string(to),
		EntityID: id,
		Apply: func(v order.View) order.View {
			return withOrder(v, next)
		},
		Remote: func(ctx context.Context) (*model.Order, error) {
			return uc.repo.UpdateOrderStatus(ctx, id, update)
		},
		Reconcile: func(v order.View, o *model.Order) order.View {
			if o == nil || o.ID == "" {
				return v
			}
			return withOrder(v, *o)
		},
	})
	if err != nil {
		uc.logger.Error("failed to update order status",
			zap.String("order_id", id),
			zap.String("status", string(to)),
			zap.Error(err),
		)
		return nil, err
	}

	uc.logger.Info("order status updated", zap.String("order_id", id), zap.String("status", string(to)))
	if updated == nil || updated.ID == "" {
		return &next, nil
	}
	return updated, nil
}

func (uc *orderUseCase) Close() {
	uc.mutator.State().Close()
}

// withOrder replaces o in the list and the selection, and follows it to its
// new status tab.
func withOrder(v order.View, o model.Order) order.View {
	orders := make([]model.Order, len(v.Orders))
	copy(orders, v.Orders)
	for i := range orders {
		if orders[i].ID == o.ID {
			orders[i] = o
		}
	}
	v.Orders = orders
	if v.Selected != nil && v.Selected.ID == o.ID {
		selected := o
		v.Selected = &selected
	}
	v.ActiveTab = o.OrderStatus
	return v
}

func find(orders []model.Order, id string) (model.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}

func transitionErr(err error) error {
	msg := "This status change is not allowed"
	switch {
	case errors.Is(err, order.ErrStatusUnchanged):
		msg = "Order already has this status"
	case errors.Is(err, order.ErrUnknownStatus):
		msg = "Unknown order status"
	}
	return &apperr.AppError{Kind: apperr.Invalid, Field: "orderStatus", PublicMsg: msg, Err: err}
}
