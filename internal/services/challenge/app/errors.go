package app

import (
	"errors"

	perrors "github.com/louisbranch/costar.quest/internal/platform/errors"
	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
	"github.com/louisbranch/costar.quest/internal/services/challenge/lifecycle"
	"github.com/louisbranch/costar.quest/internal/services/challenge/storage"
)

// Classify converts an engine error into a structured platform error with a
// stable machine-readable code. Transports call ToGRPCStatus on the result;
// the runtime logs the code next to the underlying cause.
func Classify(err error) *perrors.Error {
	if err == nil {
		return nil
	}

	var appErr *perrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidDay):
		return perrors.Wrap(perrors.CodeChallengeInvalidDay, "challenge day is invalid", err)
	case errors.Is(err, domain.ErrInvalidTier):
		return perrors.Wrap(perrors.CodeChallengeInvalidTier, "challenge tier is invalid", err)
	case errors.Is(err, domain.ErrInvalidStatus):
		return perrors.Wrap(perrors.CodeChallengeInvalidStatus, "challenge status is invalid", err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return perrors.Wrap(perrors.CodeChallengeInvalidTransition, "challenge lifecycle transition is not allowed", err)
	case errors.Is(err, domain.ErrSameActor):
		return perrors.Wrap(perrors.CodeChallengeDuplicatePair, "challenge pair reuses one actor", err)
	case errors.Is(err, domain.ErrPoolExhausted):
		return perrors.Wrap(perrors.CodePoolExhausted, "candidate pool cannot fill the tier", err)
	case errors.Is(err, domain.ErrChainLength):
		return perrors.Wrap(perrors.CodeChainLength, "solution chain length is out of bounds", err)
	case errors.Is(err, domain.ErrEmptyChallengeID):
		return perrors.Wrap(perrors.CodeAttemptEmptyChallengeID, "attempt is missing its challenge", err)
	case errors.Is(err, lifecycle.ErrUnavailable):
		return perrors.Wrap(perrors.CodeChallengeUnavailable, "no challenges could be generated", err)
	case errors.Is(err, lifecycle.ErrInvalidHintSide):
		return perrors.Wrap(perrors.CodeHintInvalidSide, "hint side is invalid", err)
	case errors.Is(err, storage.ErrNotFound):
		return perrors.Wrap(perrors.CodeNotFound, "challenge record not found", err)
	case errors.Is(err, storage.ErrDuplicate):
		return perrors.Wrap(perrors.CodeChallengeAlreadyExists, "challenge already exists for day and tier", err)
	default:
		return perrors.Wrap(perrors.CodeUnknown, "challenge engine error", err)
	}
}
