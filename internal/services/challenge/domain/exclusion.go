package domain

// ExclusionSet tracks actor ids that must not be selected again.
type ExclusionSet map[int64]struct{}

// NewExclusionSet creates an empty exclusion set.
func NewExclusionSet() ExclusionSet {
	return make(ExclusionSet)
}

// BuildExclusionSet unions yesterday's actor ids with the ids already
// committed to other tiers in the current generation pass.
func BuildExclusionSet(previousDayActorIDs, assignedActorIDs []int64) ExclusionSet {
	set := make(ExclusionSet, len(previousDayActorIDs)+len(assignedActorIDs))
	set.Add(previousDayActorIDs...)
	set.Add(assignedActorIDs...)
	return set
}

// Add inserts actor ids into the set.
func (s ExclusionSet) Add(actorIDs ...int64) {
	for _, actorID := range actorIDs {
		s[actorID] = struct{}{}
	}
}

// Contains reports whether the actor id is excluded.
func (s ExclusionSet) Contains(actorID int64) bool {
	_, ok := s[actorID]
	return ok
}
