package app

import (
	"errors"
	"fmt"
	"testing"

	perrors "github.com/louisbranch/costar.quest/internal/platform/errors"
	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
	"github.com/louisbranch/costar.quest/internal/services/challenge/lifecycle"
	"github.com/louisbranch/costar.quest/internal/services/challenge/storage"
	"google.golang.org/grpc/codes"
)

func TestClassifyMapsSentinels(t *testing.T) {
	cases := []struct {
		err  error
		code perrors.Code
		grpc codes.Code
	}{
		{domain.ErrInvalidDay, perrors.CodeChallengeInvalidDay, codes.InvalidArgument},
		{domain.ErrInvalidTier, perrors.CodeChallengeInvalidTier, codes.InvalidArgument},
		{domain.ErrInvalidTransition, perrors.CodeChallengeInvalidTransition, codes.FailedPrecondition},
		{domain.ErrSameActor, perrors.CodeChallengeDuplicatePair, codes.InvalidArgument},
		{domain.ErrPoolExhausted, perrors.CodePoolExhausted, codes.Unavailable},
		{domain.ErrChainLength, perrors.CodeChainLength, codes.InvalidArgument},
		{domain.ErrEmptyChallengeID, perrors.CodeAttemptEmptyChallengeID, codes.InvalidArgument},
		{lifecycle.ErrUnavailable, perrors.CodeChallengeUnavailable, codes.Unavailable},
		{lifecycle.ErrInvalidHintSide, perrors.CodeHintInvalidSide, codes.InvalidArgument},
		{storage.ErrNotFound, perrors.CodeNotFound, codes.NotFound},
		{storage.ErrDuplicate, perrors.CodeChallengeAlreadyExists, codes.AlreadyExists},
	}
	for _, tc := range cases {
		classified := Classify(fmt.Errorf("operation failed: %w", tc.err))
		if classified.Code != tc.code {
			t.Fatalf("Classify(%v).Code = %s, want %s", tc.err, classified.Code, tc.code)
		}
		if got := classified.Code.GRPCCode(); got != tc.grpc {
			t.Fatalf("GRPCCode(%s) = %s, want %s", classified.Code, got, tc.grpc)
		}
		if !errors.Is(classified, tc.err) {
			t.Fatalf("classified error does not unwrap to %v", tc.err)
		}
	}
}

func TestClassifyNilAndUnknown(t *testing.T) {
	if Classify(nil) != nil {
		t.Fatal("Classify(nil) should be nil")
	}
	classified := Classify(errors.New("disk on fire"))
	if classified.Code != perrors.CodeUnknown {
		t.Fatalf("code = %s, want UNKNOWN", classified.Code)
	}
}

func TestClassifyPassesThroughPlatformErrors(t *testing.T) {
	original := perrors.New(perrors.CodeNotFound, "missing record")
	classified := Classify(fmt.Errorf("lookup: %w", original))
	if classified.Code != perrors.CodeNotFound {
		t.Fatalf("code = %s, want NOT_FOUND", classified.Code)
	}
}
