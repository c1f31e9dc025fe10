// Package errors provides structured error handling for engine surfaces.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Challenge errors
	CodeChallengeInvalidDay        Code = "CHALLENGE_INVALID_DAY"
	CodeChallengeInvalidTier       Code = "CHALLENGE_INVALID_TIER"
	CodeChallengeInvalidStatus     Code = "CHALLENGE_INVALID_STATUS"
	CodeChallengeInvalidTransition Code = "CHALLENGE_INVALID_STATUS_TRANSITION"
	CodeChallengeDuplicatePair     Code = "CHALLENGE_DUPLICATE_PAIR_ACTOR"
	CodeChallengeUnavailable       Code = "CHALLENGE_UNAVAILABLE"
	CodeChallengeAlreadyExists     Code = "CHALLENGE_ALREADY_EXISTS"

	// Generation errors
	CodePoolExhausted Code = "GENERATION_POOL_EXHAUSTED"

	// Attempt and chain errors
	CodeAttemptEmptyChallengeID Code = "ATTEMPT_EMPTY_CHALLENGE_ID"
	CodeChainLength             Code = "CHAIN_INVALID_LENGTH"
	CodeChainMissingField       Code = "CHAIN_MISSING_FIELD"

	// Hint errors
	CodeHintInvalidSide Code = "HINT_INVALID_SIDE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeChallengeInvalidDay,
		CodeChallengeInvalidTier,
		CodeChallengeInvalidStatus,
		CodeChallengeDuplicatePair,
		CodeAttemptEmptyChallengeID,
		CodeChainLength,
		CodeChainMissingField,
		CodeHintInvalidSide:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeChallengeInvalidTransition:
		return codes.FailedPrecondition

	// Unavailable - degraded generation output
	case CodeChallengeUnavailable,
		CodePoolExhausted:
		return codes.Unavailable

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeChallengeAlreadyExists:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
