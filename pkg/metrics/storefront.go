package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Storefront records cart, favorites, order and analysis activity.
type Storefront struct {
	cartOps      *prometheus.CounterVec
	favoriteOps  *prometheus.CounterVec
	merges       *prometheus.CounterVec
	orders       *prometheus.CounterVec
	analysis     *prometheus.CounterVec
	analysisTime prometheus.Histogram
}

// NewStorefront registers the storefront collectors on reg. A nil registerer
// yields a recorder whose methods are no-ops.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	s := &Storefront{
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart operations by operation, storage mode and result.",
		}, []string{"operation", "mode", "result"}),
		favoriteOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "favorites_operations_total",
			Help: "Favorites operations by operation, storage mode and result.",
		}, []string{"operation", "mode", "result"}),
		merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signin_merge_total",
			Help: "Device-to-account merges run at sign-in.",
		}, []string{"collection", "result"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created, by result.",
		}, []string{"result"}),
		analysis: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "image_analysis_requests_total",
			Help: "Image analysis proxy calls, by result.",
		}, []string{"result"}),
		analysisTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "image_analysis_duration_seconds",
			Help:    "Latency of the upstream vision call.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(s.cartOps, s.favoriteOps, s.merges, s.orders, s.analysis, s.analysisTime)
	return s
}

// CartOperation counts one cart operation.
func (s *Storefront) CartOperation(operation, mode string, err error) {
	if s == nil || s.cartOps == nil {
		return
	}
	s.cartOps.WithLabelValues(normalizeLabel(operation), normalizeLabel(mode), result(err)).Inc()
}

// FavoriteOperation counts one favorites operation.
func (s *Storefront) FavoriteOperation(operation, mode string, err error) {
	if s == nil || s.favoriteOps == nil {
		return
	}
	s.favoriteOps.WithLabelValues(normalizeLabel(operation), normalizeLabel(mode), result(err)).Inc()
}

// SignInMerge counts a device-to-account merge for collection.
func (s *Storefront) SignInMerge(collection string, err error) {
	if s == nil || s.merges == nil {
		return
	}
	s.merges.WithLabelValues(normalizeLabel(collection), result(err)).Inc()
}

// OrderCreated counts an order creation attempt.
func (s *Storefront) OrderCreated(err error) {
	if s == nil || s.orders == nil {
		return
	}
	s.orders.WithLabelValues(result(err)).Inc()
}

// AnalysisCompleted records an upstream vision call.
func (s *Storefront) AnalysisCompleted(duration time.Duration, err error) {
	if s == nil || s.analysis == nil {
		return
	}
	s.analysis.WithLabelValues(result(err)).Inc()
	s.analysisTime.Observe(duration.Seconds())
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
