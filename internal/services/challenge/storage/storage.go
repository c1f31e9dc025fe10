// Package storage defines persistence contracts for challenge engine state.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate indicates a write collided with the unique active-challenge
// constraint. Under concurrent generation this means another writer already
// persisted the same (day, tier) and the write should be treated as success.
var ErrDuplicate = errors.New("challenge already exists for day and tier")

// HintSide selects which end of a challenge a hint belongs to.
type HintSide string

const (
	// HintStart is a hint about the start actor.
	HintStart HintSide = "start"
	// HintEnd is a hint about the end actor.
	HintEnd HintSide = "end"
)

// Valid reports whether the side is a known hint side.
func (s HintSide) Valid() bool {
	return s == HintStart || s == HintEnd
}

// ChallengeStore persists daily challenge records.
type ChallengeStore interface {
	PutChallenge(ctx context.Context, record domain.ChallengeRecord) error
	GetChallenge(ctx context.Context, id string) (domain.ChallengeRecord, error)
	ListChallengesByDay(ctx context.Context, day string) ([]domain.ChallengeRecord, error)
	ListChallengesByStatus(ctx context.Context, status domain.RecordStatus) ([]domain.ChallengeRecord, error)

	// UpdateChallengeStatusDay moves a record to a new day and status, used
	// by day-rollover promotion.
	UpdateChallengeStatusDay(ctx context.Context, id string, day string, status domain.RecordStatus) error

	// SetChallengeHint stores hint content for one side if none exists yet.
	// It reports whether this call performed the write, so hint content is
	// immutable once set and the hint counter increments at most once.
	SetChallengeHint(ctx context.Context, id string, side HintSide, payload string) (bool, error)
	IncrementHintsUsed(ctx context.Context, id string) error

	DeleteChallenge(ctx context.Context, id string) error
	DeleteChallengesByDay(ctx context.Context, day string) error

	// DeleteStaleActive removes active records not dated keepDay, clearing
	// orphans left by missed rollovers. Returns how many were removed.
	DeleteStaleActive(ctx context.Context, keepDay string) (int64, error)
}

// AttemptStore persists submitted solution attempts.
type AttemptStore interface {
	RecordAttempt(ctx context.Context, attempt domain.AttemptRecord) error
	ListAttempts(ctx context.Context, challengeID string) ([]domain.AttemptRecord, error)
}
