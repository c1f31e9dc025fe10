package domain

import (
	"errors"
	"math/rand"
)

// minSelectablePool is the floor below which a tier cannot be filled even
// with relaxed banding. Two distinct actors are the bare minimum for a pair.
const minSelectablePool = 2

// ErrPoolExhausted indicates too few eligible actors remain to form a pair.
var ErrPoolExhausted = errors.New("candidate pool has fewer than two eligible actors")

// Candidate is one actor eligible for pair selection, carrying the opaque
// difficulty band assigned by the pool provider.
type Candidate struct {
	Actor ActorRef
	Band  Tier
}

// Pair is a selected start/end actor pairing for one tier.
type Pair struct {
	Start ActorRef
	End   ActorRef
}

// SelectPair picks one actor pair for the tier from the candidate pool,
// skipping excluded actors. When fewer than two candidates match the tier
// band it relaxes to the full non-excluded pool, trading banding accuracy
// for forward progress; relaxed reports when that happened.
func SelectPair(pool []Candidate, tier Tier, exclude ExclusionSet, rng *rand.Rand) (pair Pair, relaxed bool, err error) {
	if rng == nil {
		return Pair{}, false, errors.New("random source is required")
	}

	available := make([]Candidate, 0, len(pool))
	for _, candidate := range pool {
		if exclude.Contains(candidate.Actor.ID) {
			continue
		}
		available = append(available, candidate)
	}

	banded := make([]Candidate, 0, len(available))
	for _, candidate := range available {
		if candidate.Band == tier {
			banded = append(banded, candidate)
		}
	}

	eligible := banded
	if len(eligible) < minSelectablePool {
		if len(available) < minSelectablePool {
			return Pair{}, false, ErrPoolExhausted
		}
		eligible = available
		relaxed = true
	}

	first := rng.Intn(len(eligible))
	second := rng.Intn(len(eligible) - 1)
	if second >= first {
		second++
	}
	return Pair{Start: eligible[first].Actor, End: eligible[second].Actor}, relaxed, nil
}
