package metrics

import (
	"context"
	"net/http"

	"github.com/fekuna/omnipos-admin-console/internal/optimistic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "omnipos_admin"

// Mutations counts optimistic mutation steps per feature and result.
type Mutations struct {
	outcomes *prometheus.CounterVec
	events   *prometheus.CounterVec
	orders   *prometheus.GaugeVec
}

func NewMutations(reg prometheus.Registerer) *Mutations {
	m := &Mutations{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutation_outcomes_total",
			Help:      "Optimistic mutation steps by feature, action and result.",
		}, []string{"feature", "action", "result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_events_total",
			Help:      "Storefront order events consumed by type.",
		}, []string{"type"}),
		orders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders",
			Help:      "Orders per status as of the last refresh.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.outcomes, m.events, m.orders)
	return m
}

func (m *Mutations) Observe(_ context.Context, o optimistic.Outcome) {
	m.outcomes.WithLabelValues(o.Feature, o.Action, string(o.Result)).Inc()
}

func (m *Mutations) OrderEvent(eventType string) {
	m.events.WithLabelValues(eventType).Inc()
}

func (m *Mutations) OrdersByStatus(status string, n int) {
	m.orders.WithLabelValues(status).Set(float64(n))
}

// Handler serves the registry in the prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
