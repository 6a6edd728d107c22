package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records cart normalization and order placement outcomes.
// A nil *CheckoutMetrics is valid and records nothing.
type CheckoutMetrics struct {
	duration     *prometheus.HistogramVec
	outcomes     *prometheus.CounterVec
	stepFailures *prometheus.CounterVec
	cartDrops    *prometheus.CounterVec
	groups       prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_place_order_duration_seconds",
		Help:    "Duration of order placement in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_place_order_total",
		Help: "Order placement attempts by outcome.",
	}, []string{"outcome"})
	stepFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_step_failures_total",
		Help: "Seller group write failures by checkout step.",
	}, []string{"step"})
	cartDrops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_entries_dropped_total",
		Help: "Cart entries removed during normalization by reason.",
	}, []string{"reason"})
	groups := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_seller_groups_placed_total",
		Help: "Seller groups that produced an order and invoice.",
	})
	reg.MustRegister(duration, outcomes, stepFailures, cartDrops, groups)
	return &CheckoutMetrics{
		duration:     duration,
		outcomes:     outcomes,
		stepFailures: stepFailures,
		cartDrops:    cartDrops,
		groups:       groups,
	}
}

// ObservePlacement records one PlaceOrder call.
func (c *CheckoutMetrics) ObservePlacement(outcome string, duration time.Duration) {
	if c == nil || c.outcomes == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	c.outcomes.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (c *CheckoutMetrics) IncStepFailure(step string) {
	if c == nil || c.stepFailures == nil {
		return
	}
	c.stepFailures.WithLabelValues(normalizeLabel(step)).Inc()
}

func (c *CheckoutMetrics) IncCartDrop(reason string) {
	if c == nil || c.cartDrops == nil {
		return
	}
	c.cartDrops.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (c *CheckoutMetrics) IncGroupPlaced() {
	if c == nil || c.groups == nil {
		return
	}
	c.groups.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
