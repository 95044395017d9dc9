package app

import (
	"log/slog"

	"smarttransit.seoullab.org/internal/appconf"
	"smarttransit.seoullab.org/internal/clock"
	"smarttransit.seoullab.org/internal/congestion"
	"smarttransit.seoullab.org/internal/metrics"
	"smarttransit.seoullab.org/internal/seoulmetro"
	"smarttransit.seoullab.org/internal/stationdb"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware. Handlers reach through it instead of importing
// package-level singletons, which keeps tests free to swap in a mock
// clock or an in-memory station database.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Stations  *stationdb.Client
	Generator *congestion.Generator
	Metro     *seoulmetro.Client
	Clock     clock.Clock
	Metrics   *metrics.Metrics
}
