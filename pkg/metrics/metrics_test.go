package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefront(reg)

	m.CartOperation("add", "local", nil)
	m.CartOperation("add", "local", nil)
	m.CartOperation("checkout", "remote", errors.New("boom"))
	m.SignInMerge("cart", nil)
	m.OrderCreated(nil)
	m.AnalysisCompleted(120*time.Millisecond, nil)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := counterValue(mfs, "cart_operations_total", map[string]string{"operation": "add", "mode": "local", "result": "success"}); err != nil || got != 2 {
		t.Fatalf("expected add=2, got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "cart_operations_total", map[string]string{"operation": "checkout", "result": "failure"}); err != nil || got != 1 {
		t.Fatalf("expected checkout failure=1, got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "signin_merge_total", map[string]string{"collection": "cart"}); err != nil || got != 1 {
		t.Fatalf("expected merge=1, got %f err=%v", got, err)
	}
	if mf := findMetricFamily(mfs, "image_analysis_duration_seconds"); mf == nil || mf.GetMetric()[0].GetHistogram().GetSampleSum() <= 0 {
		t.Fatalf("expected analysis duration to be observed")
	}
}

func TestNilRecordersAreNoops(t *testing.T) {
	var s *Storefront
	s.CartOperation("add", "local", nil)
	NewStorefront(nil).OrderCreated(nil)
	var h *HTTP
	h.Observe("GET", "/", 200, time.Millisecond)
}

func TestHTTPObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHTTP(reg)
	h.Observe("GET", "/api/v1/cart", 200, 10*time.Millisecond)
	h.Observe("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got, err := counterValue(mfs, "http_requests_total", map[string]string{"route": "/api/v1/cart", "status": "200"}); err != nil || got != 1 {
		t.Fatalf("expected 1 cart request, got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "http_requests_total", map[string]string{"route": "unknown"}); err != nil || got != 1 {
		t.Fatalf("expected unmatched route to be labelled unknown, got %f err=%v", got, err)
	}
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
