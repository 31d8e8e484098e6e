package metrics

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-admin-console/internal/optimistic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMutationsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMutations(reg)

	m.Observe(context.Background(), optimistic.Outcome{Feature: "banners", Action: "delete", Result: optimistic.Applied})
	m.Observe(context.Background(), optimistic.Outcome{Feature: "banners", Action: "delete", Result: optimistic.Reverted})
	m.Observe(context.Background(), optimistic.Outcome{Feature: "banners", Action: "delete", Result: optimistic.Reverted})
	m.OrderEvent("OrderCancelled")
	m.OrdersByStatus("shipped", 3)
	m.OrdersByStatus("shipped", 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("banners", "delete", "applied")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.outcomes.WithLabelValues("banners", "delete", "reverted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("OrderCancelled")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.orders.WithLabelValues("shipped")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "omnipos_admin_mutation_outcomes_total")
	assert.Contains(t, rec.Body.String(), `omnipos_admin_orders{status="shipped"} 2`)
}
