// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package derange assigns Secret Santa targets.

An assignment is a derangement of the participant identities: a permutation
in which nobody draws themselves. Exclusions forbid specific ordered
(giver, receiver) pairs on top of that.

# Usage

	eng := derange.New[string](derange.NewLockedSource(nil))
	assignment, err := eng.DerangeWithExclusions(participants, exclusions)
	switch {
	case errors.Is(err, derange.ErrAssignmentNotFound):
		// constraints too restrictive (or unlucky sampling)
	case err != nil:
		// caller bug
	}

# Algorithm

Derange shuffles a copy of the identities and accepts the first shuffle with
no fixed points, trying at most MaxAttempts times. DerangeWithExclusions
calls Derange up to MaxDraws times and accepts the first result that contains
no excluded pair. A rejected draw is discarded in full; pairs are never
resampled individually.

The search is bounded random retry, not a matching solver.
ErrAssignmentNotFound therefore covers both truly infeasible constraints and
a feasible instance that sampling missed. The worst case is
MaxDraws × MaxAttempts shuffles.

# Randomness

The engine draws randomness from a Source. *math/rand/v2.Rand satisfies it
directly; NewLockedSource wraps one for concurrent use. Tests inject a stub.

# Identity

Everything is keyed by participant identity. Display names are carried only
for callers and may repeat within a group.
*/
package derange
