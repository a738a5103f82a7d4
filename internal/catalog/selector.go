// Package catalog holds the fixed reminder texts and the pickers that choose
// among them.
package catalog

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Selector draws from catalogs with an injected random source. Draws are
// independent: nothing is remembered between calls.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSelector(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// NewSeededSelector returns a selector whose sequence is fixed by seed.
func NewSeededSelector(seed uint64) *Selector {
	return NewSelector(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSelector seeds from the runtime's random source.
func NewRandomSelector() *Selector {
	return NewSelector(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Pick returns a uniformly chosen item, or "" for an empty list.
func (s *Selector) Pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return list[s.rng.IntN(len(list))]
}

// Chance reports true with probability p.
func (s *Selector) Chance(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p
}

// Compose joins message parts with a blank line.
func Compose(parts ...string) string {
	return strings.Join(parts, "\n\n")
}
