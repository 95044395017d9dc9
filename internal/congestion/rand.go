package congestion

import (
	"math/rand"
	"sync"
)

// Rand is the random source every generator draws from. It is injected so
// tests can pin jitter: a source that always returns 0.5 zeroes out every
// (v-0.5)-shaped draw.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// lockedRand guards a math/rand source for use from concurrent handlers.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRand returns a concurrency-safe Rand seeded with the given seed.
func NewLockedRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

// jitter returns a uniform draw in [-spread/2, +spread/2).
func jitter(r Rand, spread float64) float64 {
	return (r.Float64() - 0.5) * spread
}

// uniformInt returns a uniform integer in [0, n).
func uniformInt(r Rand, n int) int {
	return int(r.Float64() * float64(n))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
