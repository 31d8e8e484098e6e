package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fekuna/omnipos-admin-console/internal/model"
)

// OrderStatusUpdate is the PUT /orders/:id body. IsPaid is only sent when
// the transition settles payment.
type OrderStatusUpdate struct {
	OrderStatus model.OrderStatus `json:"orderStatus"`
	IsPaid      *bool             `json:"isPaid,omitempty"`
}

// ListOrders returns every order for admins and the caller's own orders
// otherwise.
func (c *Client) ListOrders(ctx context.Context, admin bool) ([]model.Order, error) {
	path := "/orders"
	if admin {
		path = "/orders/admin"
	}
	var out []model.Order
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var out model.Order
	if err := c.getJSON(ctx, "/orders/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CountOrders(ctx context.Context) (int, error) {
	var out struct {
		TotalOrders int `json:"totalOrders"`
	}
	if err := c.getJSON(ctx, "/orders/order-count", nil, &out); err != nil {
		return 0, err
	}
	return out.TotalOrders, nil
}

func (c *Client) RecentOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := c.getJSON(ctx, "/orders/recent-orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, u OrderStatusUpdate) (*model.Order, error) {
	var out model.Order
	if err := c.sendJSON(ctx, http.MethodPut, "/orders/"+url.PathEscape(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
