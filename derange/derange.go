// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package derange

import (
	"errors"
	"fmt"
)

// Default retry limits. The worst case is DefaultMaxDraws * DefaultMaxAttempts shuffles.
const (
	DefaultMaxAttempts = 1000
	DefaultMaxDraws    = 1000
)

var (
	ErrInsufficientParticipants = errors.New("at least 2 participants are required")
	ErrAssignmentNotFound       = errors.New("no valid assignment found")
	ErrDuplicateIdentity        = errors.New("duplicate participant identity")
	ErrInvalidAssignment        = errors.New("invalid assignment")
)

// Participant is a drawable member of a group.
type Participant[K comparable] struct {
	ID   K
	Name string
}

// Pair is an ordered (giver, receiver) pair.
type Pair[K comparable] struct {
	Giver    K
	Receiver K
}

// Exclusions is the set of forbidden pairs.
type Exclusions[K comparable] map[Pair[K]]struct{}

// NewExclusions builds an exclusion set from pairs.
func NewExclusions[K comparable](pairs ...Pair[K]) Exclusions[K] {
	ex := make(Exclusions[K], len(pairs))
	for _, p := range pairs {
		ex[p] = struct{}{}
	}
	return ex
}

// Has reports whether giver is forbidden from drawing receiver.
func (ex Exclusions[K]) Has(giver, receiver K) bool {
	_, ok := ex[Pair[K]{Giver: giver, Receiver: receiver}]
	return ok
}

// Assignment maps giver identity to receiver identity.
type Assignment[K comparable] map[K]K

// Validate checks that a is a derangement of ids that avoids every pair in ex.
func (a Assignment[K]) Validate(ids []K, ex Exclusions[K]) error {
	if len(a) != len(ids) {
		return fmt.Errorf("%w: %d givers for %d participants", ErrInvalidAssignment, len(a), len(ids))
	}

	received := make(map[K]bool, len(ids))
	for _, id := range ids {
		target, ok := a[id]
		if !ok {
			return fmt.Errorf("%w: %v has no target", ErrInvalidAssignment, id)
		}
		if target == id {
			return fmt.Errorf("%w: %v drew themselves", ErrInvalidAssignment, id)
		}
		if ex.Has(id, target) {
			return fmt.Errorf("%w: %v -> %v is excluded", ErrInvalidAssignment, id, target)
		}
		if received[target] {
			return fmt.Errorf("%w: %v is drawn twice", ErrInvalidAssignment, target)
		}
		received[target] = true
	}

	for _, id := range ids {
		if !received[id] {
			return fmt.Errorf("%w: %v is never drawn", ErrInvalidAssignment, id)
		}
	}
	return nil
}

// Option adjusts an Engine's retry limits.
type Option func(*limits)

type limits struct {
	attempts int
	draws    int
}

// WithMaxAttempts bounds the shuffles tried by a single Derange call.
func WithMaxAttempts(n int) Option {
	return func(l *limits) {
		if n > 0 {
			l.attempts = n
		}
	}
}

// WithMaxDraws bounds the Derange calls made by DerangeWithExclusions.
func WithMaxDraws(n int) Option {
	return func(l *limits) {
		if n > 0 {
			l.draws = n
		}
	}
}

// Engine generates constrained derangements. It holds no per-call state and
// is safe for concurrent use when its Source is.
type Engine[K comparable] struct {
	src    Source
	limits limits
}

// New creates an Engine drawing randomness from src.
func New[K comparable](src Source, opts ...Option) *Engine[K] {
	l := limits{attempts: DefaultMaxAttempts, draws: DefaultMaxDraws}
	for _, opt := range opts {
		opt(&l)
	}
	return &Engine[K]{src: src, limits: l}
}

// Derange returns a random permutation of ids with no fixed points, mapping
// each id to the id shuffled into its position.
func (e *Engine[K]) Derange(ids []K) (Assignment[K], error) {
	if len(ids) < 2 {
		return nil, ErrInsufficientParticipants
	}
	if err := checkDistinct(ids); err != nil {
		return nil, err
	}

	targets := make([]K, len(ids))
	for attempt := 0; attempt < e.limits.attempts; attempt++ {
		copy(targets, ids)
		e.src.Shuffle(len(targets), func(i, j int) {
			targets[i], targets[j] = targets[j], targets[i]
		})
		if hasFixedPoint(ids, targets) {
			continue
		}

		out := make(Assignment[K], len(ids))
		for i, id := range ids {
			out[id] = targets[i]
		}
		return out, nil
	}

	return nil, ErrAssignmentNotFound
}

// DerangeWithExclusions returns a derangement of the participants that
// contains no excluded pair. Each rejected derangement is discarded whole
// and a fresh one is drawn.
func (e *Engine[K]) DerangeWithExclusions(participants []Participant[K], ex Exclusions[K]) (Assignment[K], error) {
	ids := make([]K, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}

	for draw := 0; draw < e.limits.draws; draw++ {
		a, err := e.Derange(ids)
		if err != nil {
			return nil, err
		}
		if !a.excludes(ex) {
			return a, nil
		}
	}

	return nil, ErrAssignmentNotFound
}

// excludes reports whether any pair of a is in ex.
func (a Assignment[K]) excludes(ex Exclusions[K]) bool {
	for giver, receiver := range a {
		if ex.Has(giver, receiver) {
			return true
		}
	}
	return false
}

func hasFixedPoint[K comparable](ids, targets []K) bool {
	for i := range ids {
		if ids[i] == targets[i] {
			return true
		}
	}
	return false
}

func checkDistinct[K comparable](ids []K) error {
	seen := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %v", ErrDuplicateIdentity, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
