package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)
	metrics.ObservePlacement("partial", 250*time.Millisecond)
	metrics.IncStepFailure("create_invoice")
	metrics.IncStepFailure("create_invoice")
	metrics.IncCartDrop("")
	metrics.IncGroupPlaced()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_place_order_total", "outcome", "partial"); err != nil {
		t.Fatalf("fetch outcome: %v", err)
	} else if got != 1 {
		t.Fatalf("expected outcome=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_step_failures_total", "step", "create_invoice"); err != nil {
		t.Fatalf("fetch step failures: %v", err)
	} else if got != 2 {
		t.Fatalf("expected step failures=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cart_entries_dropped_total", "reason", "unknown"); err != nil {
		t.Fatalf("fetch cart drops: %v", err)
	} else if got != 1 {
		t.Fatalf("expected drops=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_place_order_duration_seconds", "outcome", "partial"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilCheckoutMetricsIsSafe(t *testing.T) {
	var metrics *CheckoutMetrics
	metrics.ObservePlacement("done", time.Second)
	metrics.IncStepFailure("notify")
	metrics.IncCartDrop("seller_unverified")
	metrics.IncGroupPlaced()

	NewCheckoutMetrics(nil).IncGroupPlaced()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
