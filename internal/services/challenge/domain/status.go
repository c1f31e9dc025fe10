package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition indicates a lifecycle move outside the allowed table.
var ErrInvalidTransition = errors.New("status transition is not allowed")

// RecordStatus describes where a challenge record sits in its lifecycle.
type RecordStatus string

const (
	// StatusActive marks the record players are solving today.
	StatusActive RecordStatus = "active"
	// StatusNext marks a record prepared for the following day.
	StatusNext RecordStatus = "next"
	// StatusArchived marks a retired record kept for attempt history.
	StatusArchived RecordStatus = "archived"
)

// Valid reports whether the status is a known lifecycle state.
func (s RecordStatus) Valid() bool {
	switch s {
	case StatusActive, StatusNext, StatusArchived:
		return true
	default:
		return false
	}
}

// statusTransitions is the allowed lifecycle transition table.
// Records are created directly as active or next; promotion moves
// next to active; retirement moves active to archived.
var statusTransitions = map[RecordStatus][]RecordStatus{
	StatusNext:   {StatusActive},
	StatusActive: {StatusArchived},
}

// ValidateTransition reports whether from may move to target.
func ValidateTransition(from, target RecordStatus) error {
	if !from.Valid() {
		return fmt.Errorf("unknown status %q", from)
	}
	if !target.Valid() {
		return fmt.Errorf("unknown status %q", target)
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == target {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
}
