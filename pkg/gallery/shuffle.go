package gallery

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler produces unbiased random permutations from a private
// math/rand source. A pseudo-random source is sufficient here: the
// shuffle decides display order, nothing security-sensitive.
// Safe for concurrent use.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler creates a time-seeded shuffler.
func NewShuffler() *Shuffler {
	return NewShufflerWithSeed(time.Now().UnixNano())
}

// NewShufflerWithSeed creates a shuffler with a fixed seed.
// Deterministic permutations are useful in tests.
func NewShufflerWithSeed(seed int64) *Shuffler {
	return &Shuffler{
		rnd: rand.New(rand.NewSource(seed)), // #nosec G404
	}
}

// Permute returns a uniformly shuffled copy of ids using the
// Fisher-Yates algorithm. The input slice is not modified.
func (s *Shuffler) Permute(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	if len(out) <= 1 {
		return out
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(out) - 1; i >= 1; i-- {
		j := s.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
