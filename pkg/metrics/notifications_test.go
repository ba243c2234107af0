package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNotificationMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewNotificationMetrics(reg)

	metrics.IncOutcome("sms", "sent")
	metrics.IncOutcome("sms", "sent")
	metrics.IncOutcome("sms", "skipped")
	metrics.ObserveProviderLatency("sms", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "notification_outcomes_total", "outcome", "sent"); err != nil {
		t.Fatalf("fetch sent: %v", err)
	} else if got != 2 {
		t.Fatalf("expected sent=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "notification_outcomes_total", "outcome", "skipped"); err != nil {
		t.Fatalf("fetch skipped: %v", err)
	} else if got != 1 {
		t.Fatalf("expected skipped=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "notification_provider_seconds", "channel", "sms"); err != nil {
		t.Fatalf("fetch latency: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected latency sum > 0, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	metrics := NewNotificationMetrics(nil)
	metrics.IncOutcome("sms", "sent")
	metrics.ObserveProviderLatency("sms", time.Second)
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
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
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
