// Package restapi contains the HTTP handlers and middleware chain for the
// SmartTransit JSON API.
package restapi

import (
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smarttransit.seoullab.org/internal/app"
)

// RestAPI bundles the Application dependencies for handler methods.
type RestAPI struct {
	*app.Application
	limiter *RateLimitMiddleware
}

func NewRestAPI(application *app.Application) *RestAPI {
	return &RestAPI{
		Application: application,
		limiter:     NewRateLimitMiddleware(application.Config.RateLimit, time.Second, application.Config.ApiKeys, application.Clock),
	}
}

// Shutdown stops background goroutines owned by the API layer.
func (api *RestAPI) Shutdown() {
	api.limiter.Stop()
}

// SetupRoutes registers the JSON API and the metrics endpoint. Method
// patterns give wrong-method requests a 405 for free.
func (api *RestAPI) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stations", api.stationsListHandler)
	mux.HandleFunc("GET /api/stations/nearby", api.nearbyStationsHandler)
	mux.HandleFunc("GET /api/stations/{id}", api.stationHandler)
	mux.HandleFunc("GET /api/congestion/realtime", api.congestionRealtimeHandler)
	mux.HandleFunc("GET /api/congestion/history", api.congestionHistoryHandler)
	mux.HandleFunc("GET /api/congestion/overview", api.congestionOverviewHandler)
	mux.HandleFunc("GET /api/prediction", api.predictionHandler)
	mux.HandleFunc("GET /api/prediction/accuracy", api.predictionAccuracyHandler)
	mux.HandleFunc("POST /api/recommendations", api.recommendationsHandler)
	mux.HandleFunc("GET /api/recommendations/popular-routes", api.popularRoutesHandler)
	mux.HandleFunc("GET /api/health", api.healthHandler)

	if api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// Middleware wraps the routed mux in the full chain: request ID first so
// everything downstream can log it, then request logging, metrics, rate
// limiting, cache headers, and gzip on the outside.
func (api *RestAPI) Middleware(next http.Handler) http.Handler {
	handler := CacheControlMiddleware(0, next)
	handler = api.limiter.Handler()(handler)
	handler = MetricsHandler(api.Metrics)(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = RequestIDMiddleware(handler)
	return gzhttp.GzipHandler(handler)
}
