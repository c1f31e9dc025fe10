package domain

import (
	"log"
	"math/rand"
)

// GenerateAll selects one pair per tier in fixed order (easy, medium, hard),
// threading a running exclusion set so no actor repeats across tiers or from
// the previous day. Tiers that cannot be filled are omitted from the result.
func GenerateAll(pool []Candidate, previousDayActorIDs []int64, rng *rand.Rand) map[Tier]Pair {
	exclude := BuildExclusionSet(previousDayActorIDs, nil)
	pairs := make(map[Tier]Pair, len(Tiers()))
	for _, tier := range Tiers() {
		pair, err := GenerateOne(pool, tier, exclude, rng)
		if err != nil {
			log.Printf("generate %s tier: %v", tier, err)
			continue
		}
		pairs[tier] = pair
		exclude.Add(pair.Start.ID, pair.End.ID)
	}
	return pairs
}

// GenerateOne selects a single tier pair using the caller-supplied exclusion
// set directly, without cross-tier bookkeeping. Used for single-tier resets.
func GenerateOne(pool []Candidate, tier Tier, exclude ExclusionSet, rng *rand.Rand) (Pair, error) {
	if !tier.Valid() {
		return Pair{}, ErrInvalidTier
	}
	pair, relaxed, err := SelectPair(pool, tier, exclude, rng)
	if err != nil {
		return Pair{}, err
	}
	if relaxed {
		log.Printf("relaxed selection for %s tier: too few banded candidates", tier)
	}
	return pair, nil
}
