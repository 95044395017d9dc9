package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"smarttransit.seoullab.org/internal/app"
	"smarttransit.seoullab.org/internal/appconf"
	"smarttransit.seoullab.org/internal/clock"
	"smarttransit.seoullab.org/internal/congestion"
	"smarttransit.seoullab.org/internal/metrics"
	"smarttransit.seoullab.org/internal/restapi"
	"smarttransit.seoullab.org/internal/seoulmetro"
	"smarttransit.seoullab.org/internal/stationdb"
	"smarttransit.seoullab.org/internal/webui"
)

const dbStatsInterval = 15 * time.Second

// BuildApplication wires every dependency from the config. The returned
// cleanup closes the database and stops background collectors.
func BuildApplication(cfg appconf.Config, logger *slog.Logger) (*app.Application, func(), error) {
	stations, err := stationdb.NewClient(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening station database: %w", err)
	}

	m := metrics.NewWithLogger(logger)
	m.StartDBStatsCollector(stations.DB, dbStatsInterval)

	realClock := clock.RealClock{}
	randSource := congestion.NewLockedRand(time.Now().UnixNano())
	generator := congestion.NewGenerator(realClock, randSource)

	metro := seoulmetro.NewClient(seoulmetro.Config{
		APIKey:   cfg.UpstreamAPIKey,
		BaseURL:  cfg.UpstreamBaseURL,
		CacheTTL: cfg.UpstreamCacheTTL,
	}, generator, randSource, realClock, logger, m)

	application := &app.Application{
		Config:    cfg,
		Logger:    logger,
		Stations:  stations,
		Generator: generator,
		Metro:     metro,
		Clock:     realClock,
		Metrics:   m,
	}

	cleanup := func() {
		m.Shutdown()
		if err := stations.Close(); err != nil {
			logger.Error("closing station database", "error", err.Error())
		}
	}
	return application, cleanup, nil
}

// BuildHandler assembles the routed mux wrapped in the middleware chain.
func BuildHandler(application *app.Application, api *restapi.RestAPI) http.Handler {
	mux := http.NewServeMux()
	api.SetupRoutes(mux)
	webui.NewWebUI(application).SetupWebUIRoutes(mux)
	return api.Middleware(mux)
}

// CreateServer builds the http.Server with production timeouts.
func CreateServer(cfg appconf.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
