package restapi

import (
	"log/slog"
	"net/http"
	"time"

	"smarttransit.seoullab.org/internal/logging"
)

// NewRequestLoggingMiddleware returns middleware that seeds the request
// context with the application logger and emits one structured line per
// completed request, carrying the method, path, status, latency, and the
// correlation ID assigned by RequestIDMiddleware.
func NewRequestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r = r.WithContext(logging.WithLogger(r.Context(), logger))

			recorder := newStatusRecorder(w)
			next.ServeHTTP(recorder, r)

			logging.LogHTTPRequest(logger,
				r.Method,
				r.URL.Path,
				recorder.status,
				float64(time.Since(start).Nanoseconds())/1e6,
				slog.String("request_id", GetRequestID(r.Context())),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.String("component", "http_server"))
		})
	}
}
