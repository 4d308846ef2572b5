package middleware

import (
	"net/http"
	"time"

	"github.com/satyam539813/farmappsample/pkg/metrics"
)

// Metrics records request counts and latency labelled by chi route pattern.
func Metrics(recorder *metrics.HTTP) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newResponseRecorder(w)
			start := time.Now()

			next.ServeHTTP(rec, r)

			recorder.Observe(r.Method, routePattern(r), rec.Status(), time.Since(start))
		})
	}
}
