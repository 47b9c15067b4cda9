package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSearchMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewSearchMetrics(reg)

	metrics.ObserveDuration("search", 120*time.Millisecond)
	metrics.IncCacheHit("search")
	metrics.IncCacheMiss("product")
	metrics.IncFailure("search")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cache_hits_total", "entity", "search"); err != nil {
		t.Fatalf("fetch hits: %v", err)
	} else if got != 1 {
		t.Fatalf("expected hits=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cache_misses_total", "entity", "product"); err != nil {
		t.Fatalf("fetch misses: %v", err)
	} else if got != 1 {
		t.Fatalf("expected misses=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "search_failures_total", "operation", "search"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "search_duration_seconds", "operation", "search"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestSearchMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewSearchMetrics(nil)
	metrics.ObserveDuration("search", time.Second)
	metrics.IncCacheHit("search")
	metrics.IncCacheMiss("search")
	metrics.IncFailure("search")
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
