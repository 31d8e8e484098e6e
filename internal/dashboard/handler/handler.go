package handler

import (
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/auth"
	"github.com/fekuna/omnipos-admin-console/internal/dashboard"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/fekuna/omnipos-admin-console/internal/render"
	"github.com/spf13/cobra"
)

type DashboardHandler struct {
	uc     dashboard.UseCase
	logger logger.ZapLogger
}

func NewDashboardHandler(uc dashboard.UseCase, log logger.ZapLogger) *DashboardHandler {
	return &DashboardHandler{
		uc:     uc,
		logger: log,
	}
}

type recentProduct struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Category  string    `json:"category" yaml:"category"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

type recentOrder struct {
	ID       string            `json:"id" yaml:"id"`
	Customer string            `json:"customer" yaml:"customer"`
	Status   model.OrderStatus `json:"status" yaml:"status"`
	Total    float64           `json:"total" yaml:"total"`
}

type statsOutput struct {
	TotalUsers     int             `json:"totalUsers" yaml:"totalUsers"`
	TotalProducts  int             `json:"totalProducts" yaml:"totalProducts"`
	TotalOrders    int             `json:"totalOrders" yaml:"totalOrders"`
	RecentProducts []recentProduct `json:"recentProducts" yaml:"recentProducts"`
	RecentOrders   []recentOrder   `json:"recentOrders" yaml:"recentOrders"`
}

func mapStats(s *model.DashboardStats) statsOutput {
	out := statsOutput{
		TotalUsers:     s.TotalUsers,
		TotalProducts:  s.TotalProducts,
		TotalOrders:    s.TotalOrders,
		RecentProducts: make([]recentProduct, 0, len(s.RecentProducts)),
		RecentOrders:   make([]recentOrder, 0, len(s.RecentOrders)),
	}
	for _, p := range s.RecentProducts {
		out.RecentProducts = append(out.RecentProducts, recentProduct{ID: p.ID, Name: p.Name, Category: p.Category, CreatedAt: p.CreatedAt})
	}
	for _, o := range s.RecentOrders {
		out.RecentOrders = append(out.RecentOrders, recentOrder{ID: o.ID, Customer: o.CustomerName(), Status: o.OrderStatus, Total: o.PriceSummary.Total})
	}
	return out
}

func (h *DashboardHandler) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show store totals and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.Require(cmd.Context(), auth.RouteDashboard); err != nil {
				return err
			}
			p, err := render.ForCommand(cmd)
			if err != nil {
				return err
			}
			// zeroed stats are still printed when a count fails
			stats, err := h.uc.Stats(cmd.Context())
			if perr := p.Print(mapStats(stats)); perr != nil {
				return perr
			}
			return err
		},
	}
}
