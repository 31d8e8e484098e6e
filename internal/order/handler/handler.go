package handler

import (
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/auth"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/fekuna/omnipos-admin-console/internal/order"
	"github.com/fekuna/omnipos-admin-console/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

type orderRow struct {
	ID        string            `json:"id" yaml:"id"`
	Customer  string            `json:"customer" yaml:"customer"`
	Status    model.OrderStatus `json:"status" yaml:"status"`
	Total     float64           `json:"total" yaml:"total"`
	Payment   string            `json:"payment" yaml:"payment"`
	IsPaid    bool              `json:"isPaid" yaml:"isPaid"`
	CreatedAt time.Time         `json:"createdAt" yaml:"createdAt"`
}

func mapOrderToRow(o model.Order) orderRow {
	return orderRow{
		ID:        o.ID,
		Customer:  o.CustomerName(),
		Status:    o.OrderStatus,
		Total:     o.PriceSummary.Total,
		Payment:   o.PaymentInfo.Method,
		IsPaid:    o.IsPaid,
		CreatedAt: o.CreatedAt,
	}
}

func (h *OrderHandler) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Review orders and move them through their lifecycle",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.Require(cmd.Context(), auth.RouteOrders); err != nil {
				return err
			}
			return h.uc.Load(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			h.uc.Close()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List orders in one status tab",
		Args:  cobra.NoArgs,
		RunE:  h.list,
	}
	list.Flags().String("status", string(model.StatusProcessing), "status tab to show")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "search <order-id>",
			Short: "Find an order by a fragment of its id",
			Args:  cobra.ExactArgs(1),
			RunE:  h.search,
		},
		&cobra.Command{
			Use:   "show <order-id>",
			Short: "Show one order",
			Args:  cobra.ExactArgs(1),
			RunE:  h.show,
		},
		&cobra.Command{
			Use:   "set-status <order-id> <status>",
			Short: "Move an order to a new status",
			Long: `Move an order to a new status.

Orders move forward (processing, shipped, out of delivery, delivered) and may
skip steps. Any order that is not delivered can be cancelled. Delivering a
cash on delivery order also marks its payment completed.`,
			Args: cobra.ExactArgs(2),
			RunE: h.setStatus,
		},
	)
	return cmd
}

func (h *OrderHandler) list(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	if err := h.uc.SetActiveTab(model.OrderStatus(status)); err != nil {
		return err
	}
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}

	tab := h.uc.View().ActiveTab
	rows := []orderRow{}
	for _, o := range h.uc.ByStatus()[tab] {
		rows = append(rows, mapOrderToRow(o))
	}
	return p.Print(rows)
}

func (h *OrderHandler) search(cmd *cobra.Command, args []string) error {
	o, err := h.uc.Search(args[0])
	if err != nil {
		return err
	}
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	return p.Print(mapOrderToRow(*o))
}

func (h *OrderHandler) show(cmd *cobra.Command, args []string) error {
	o, err := h.uc.Open(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	return p.Print(o)
}

func (h *OrderHandler) setStatus(cmd *cobra.Command, args []string) error {
	id, to := args[0], model.OrderStatus(args[1])
	o, err := h.uc.UpdateStatus(cmd.Context(), id, to)
	if err != nil {
		return err
	}
	h.logger.Debug("status change confirmed", zap.String("order_id", id), zap.String("status", string(o.OrderStatus)))

	p, err := render.ForCommand(cmd)
	if err != nil {
		return err
	}
	return p.Print(mapOrderToRow(*o))
}
