package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"smarttransit.seoullab.org/internal/appconf"
	"smarttransit.seoullab.org/internal/logging"
	"smarttransit.seoullab.org/internal/restapi"
)

func main() {
	var (
		port        = flag.Int("port", 3001, "API server port (env PORT overrides)")
		env         = flag.String("env", "development", "Environment (development|test|production)")
		apiKeys     = flag.String("api-keys", "", "Comma-separated API keys exempt from rate limiting")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		rateLimit   = flag.Int("rate-limit", 100, "Requests per second per client; negative disables limiting")
		dbPath      = flag.String("db-path", "smarttransit.db", "Path to the sqlite database (\":memory:\" for ephemeral)")
		staticDir   = flag.String("static-dir", "", "Built SPA bundle directory; empty disables static serving")
		upstreamURL = flag.String("upstream-base-url", appconf.DefaultUpstreamBaseURL, "Seoul open-data API base URL")
		cacheTTL    = flag.Duration("upstream-cache-ttl", appconf.DefaultUpstreamCacheTTL, "Upstream arrival cache TTL")
	)
	flag.Parse()

	if fromEnv := os.Getenv("PORT"); fromEnv != "" {
		if parsed, err := strconv.Atoi(fromEnv); err == nil {
			*port = parsed
		}
	}

	cfg := appconf.Config{
		Port:             *port,
		Env:              appconf.EnvFlagToEnvironment(*env),
		ApiKeys:          splitAPIKeys(*apiKeys),
		Verbose:          *verbose,
		RateLimit:        *rateLimit,
		DBPath:           *dbPath,
		UpstreamBaseURL:  *upstreamURL,
		UpstreamAPIKey:   os.Getenv("SEOUL_METRO_API_KEY"),
		UpstreamCacheTTL: *cacheTTL,
		StaticDir:        *staticDir,
	}

	logger := logging.NewLogger(cfg.Verbose)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg appconf.Config, logger *slog.Logger) error {
	application, cleanup, err := BuildApplication(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	srv := CreateServer(cfg, BuildHandler(application, api))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", srv.Addr,
			"env", cfg.Env.String(),
			"upstream_enabled", cfg.UpstreamAPIKey != "")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

func splitAPIKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
