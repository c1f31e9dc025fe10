package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/costar.quest/internal/platform/id"
)

// MaxChainLength bounds how many connections one solution may use.
const MaxChainLength = 6

var (
	// ErrEmptyChallengeID indicates an attempt without a challenge reference.
	ErrEmptyChallengeID = errors.New("attempt challenge id is required")
	// ErrChainLength indicates a chain outside the 1..6 connection bound.
	ErrChainLength = errors.New("a solution must use between 1 and 6 connections")
)

// Connection is one actor-through-movie link in a solution chain. It is
// owned by its attempt and never mutated after creation.
type Connection struct {
	ActorID    int64  `json:"actorId"`
	ActorName  string `json:"actorName"`
	MovieID    int64  `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
}

// AttemptRecord is one submitted solution. Attempts are append-only and
// never deduplicated.
type AttemptRecord struct {
	ID          string
	ChallengeID string
	MoveCount   int
	Completed   bool
	Connections []Connection
	CreatedAt   time.Time
}

// NewAttemptRecord creates an attempt record for a submitted chain.
func NewAttemptRecord(challengeID string, completed bool, connections []Connection, now func() time.Time, idGenerator func() (string, error)) (AttemptRecord, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if challengeID == "" {
		return AttemptRecord{}, ErrEmptyChallengeID
	}
	if len(connections) == 0 || len(connections) > MaxChainLength {
		return AttemptRecord{}, ErrChainLength
	}

	attemptID, err := idGenerator()
	if err != nil {
		return AttemptRecord{}, fmt.Errorf("generate attempt id: %w", err)
	}

	owned := make([]Connection, len(connections))
	copy(owned, connections)
	return AttemptRecord{
		ID:          attemptID,
		ChallengeID: challengeID,
		MoveCount:   len(owned),
		Completed:   completed,
		Connections: owned,
		CreatedAt:   now().UTC(),
	}, nil
}
