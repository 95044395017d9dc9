package restapi

import (
	"net/http"
	"strconv"
	"time"

	"smarttransit.seoullab.org/internal/metrics"
)

// MetricsHandler returns middleware that counts requests and observes their
// latency. The path label comes from the mux route pattern the request
// matched (r.Pattern, set by the Go 1.22 ServeMux), not the raw URL, so
// station IDs and query strings cannot explode label cardinality. Requests
// that matched no route are grouped under "unmatched". A nil metrics handle
// yields a pass-through, which keeps tests that do not care about metrics
// cheap.
func MetricsHandler(m *metrics.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			recorder := newStatusRecorder(w)
			next.ServeHTTP(recorder, r)

			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}

			m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(recorder.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
