// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package derange

import (
	"math/rand/v2"
	"sync"
)

// Source supplies the shuffles. Shuffle must produce a uniformly random
// permutation of n elements by calling swap.
type Source interface {
	Shuffle(n int, swap func(i, j int))
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedSource wraps rnd so it can be shared between goroutines.
// A nil rnd is replaced with a randomly seeded PCG generator.
func NewLockedSource(rnd *rand.Rand) Source {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &lockedSource{rnd: rnd}
}

// NewSeededSource returns a deterministic source, for tests and replays.
func NewSeededSource(seed uint64) Source {
	return NewLockedSource(rand.New(rand.NewPCG(seed, seed)))
}

func (s *lockedSource) Shuffle(n int, swap func(i, j int)) {
	if n <= 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(n, swap)
}
