package story

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is a seedable, goroutine-safe random source. Memento types, confusion
// templates, image seeds and world-context picks all draw from one injected
// instance so tests can pin the sequence.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a source seeded with seed, or with the clock when seed is 0.
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform value in [0, n).
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Intn(n)
}
