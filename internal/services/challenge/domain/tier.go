// Package domain models daily challenge records and pair generation rules.
package domain

import (
	"fmt"
	"strings"
)

// Tier is a daily puzzle difficulty class.
type Tier string

const (
	// TierEasy is the most connected actor band.
	TierEasy Tier = "easy"
	// TierMedium is the middle actor band.
	TierMedium Tier = "medium"
	// TierHard is the least connected actor band.
	TierHard Tier = "hard"
)

// Tiers lists all tiers in generation and display order.
func Tiers() []Tier {
	return []Tier{TierEasy, TierMedium, TierHard}
}

// Rank returns the sort position of the tier (easy < medium < hard).
func (t Tier) Rank() int {
	switch t {
	case TierEasy:
		return 0
	case TierMedium:
		return 1
	case TierHard:
		return 2
	default:
		return 3
	}
}

// Valid reports whether the tier is a known difficulty class.
func (t Tier) Valid() bool {
	switch t {
	case TierEasy, TierMedium, TierHard:
		return true
	default:
		return false
	}
}

// ParseTier normalizes and validates a tier name.
func ParseTier(value string) (Tier, error) {
	tier := Tier(strings.ToLower(strings.TrimSpace(value)))
	if !tier.Valid() {
		return "", fmt.Errorf("unknown tier %q", value)
	}
	return tier, nil
}
