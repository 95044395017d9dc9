package seoulmetro

import (
	"sync"
	"time"

	"smarttransit.seoullab.org/internal/clock"
)

// arrivalCache is a TTL cache keyed by station name. Last-writer-wins on
// concurrent population: a few redundant upstream calls inside the TTL
// window are acceptable, so there is no single-flight deduplication.
type arrivalCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   clock.Clock
	entries map[string]cacheEntry
}

type cacheEntry struct {
	arrivals  *StationArrivals
	expiresAt time.Time
}

func newArrivalCache(ttl time.Duration, c clock.Clock) *arrivalCache {
	return &arrivalCache{
		ttl:     ttl,
		clock:   c,
		entries: make(map[string]cacheEntry),
	}
}

// get returns the cached arrivals for the station name if not expired.
func (ac *arrivalCache) get(stationName string) (*StationArrivals, bool) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	entry, ok := ac.entries[stationName]
	if !ok || ac.clock.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.arrivals, true
}

func (ac *arrivalCache) set(stationName string, arrivals *StationArrivals) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.entries[stationName] = cacheEntry{
		arrivals:  arrivals,
		expiresAt: ac.clock.Now().Add(ac.ttl),
	}
}

// Snapshot returns the cached payloads keyed by station name, for the
// debug dump.
func (ac *arrivalCache) Snapshot() map[string]*StationArrivals {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	snapshot := make(map[string]*StationArrivals, len(ac.entries))
	for name, entry := range ac.entries {
		snapshot[name] = entry.arrivals
	}
	return snapshot
}
