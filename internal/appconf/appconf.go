// Package appconf holds the runtime configuration for the SmartTransit API.
package appconf

import "time"

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps the -env command line flag to an Environment.
// Unknown values fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch env {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "development"
	}
}

// Config is the full runtime configuration, assembled in cmd/api from flags
// and environment variables and passed down to every component.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	Verbose   bool
	RateLimit int

	// DBPath is the sqlite database holding the station inventory and
	// best-effort congestion history. ":memory:" is valid for tests.
	DBPath string

	// Upstream Seoul open-data API settings. An empty UpstreamAPIKey
	// disables live lookups entirely; every realtime request is then
	// served from the simulator.
	UpstreamBaseURL  string
	UpstreamAPIKey   string
	UpstreamCacheTTL time.Duration

	// StaticDir is the built SPA bundle served for non-API routes.
	StaticDir string
}

const (
	DefaultUpstreamBaseURL  = "http://swopenapi.seoul.go.kr/api/subway"
	DefaultUpstreamCacheTTL = 30 * time.Second
)
