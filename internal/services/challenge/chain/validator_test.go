package chain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
	"github.com/louisbranch/costar.quest/internal/services/challenge/oracle"
)

func twoLinkChain() []domain.Connection {
	return []domain.Connection{
		{ActorID: 100, ActorName: "Start Actor", MovieID: 1, MovieTitle: "First Movie"},
		{ActorID: 150, ActorName: "Bridge Actor", MovieID: 2, MovieTitle: "Second Movie"},
	}
}

// wireTwoLinkChain records the appearances that make twoLinkChain valid:
// actor 100 in movie 1, actor 150 in both movies, actor 200 in movie 2.
func wireTwoLinkChain(fake *oracle.Fake) {
	fake.AddAppearance(100, 1)
	fake.AddAppearance(150, 1)
	fake.AddAppearance(150, 2)
	fake.AddAppearance(200, 2)
}

func TestValidateCompleteChain(t *testing.T) {
	fake := oracle.NewFake()
	wireTwoLinkChain(fake)

	result := Validate(context.Background(), fake, 100, 200, twoLinkChain())
	if !result.Valid {
		t.Fatalf("valid = false (%q), want true", result.Message)
	}
	if !result.Completed {
		t.Fatal("completed = false, want true")
	}
	if result.Moves != 2 {
		t.Fatalf("moves = %d, want 2", result.Moves)
	}
}

func TestValidateBrokenBridgeNamesSecondConnection(t *testing.T) {
	fake := oracle.NewFake()
	wireTwoLinkChain(fake)
	fake.RemoveAppearance(150, 2)

	result := Validate(context.Background(), fake, 100, 200, twoLinkChain())
	if result.Valid {
		t.Fatal("valid = true, want false")
	}
	if !strings.Contains(result.Message, "connection 2") {
		t.Fatalf("message %q should reference connection 2", result.Message)
	}
	if !strings.Contains(result.Message, "Bridge Actor") {
		t.Fatalf("message %q should name the broken actor", result.Message)
	}
}

func TestValidateChainLengthBoundSkipsOracle(t *testing.T) {
	fake := oracle.NewFake()
	tooLong := make([]domain.Connection, domain.MaxChainLength+1)
	for i := range tooLong {
		tooLong[i] = domain.Connection{ActorID: int64(i + 1), MovieID: int64(i + 1)}
	}

	result := Validate(context.Background(), fake, 100, 200, tooLong)
	if result.Valid {
		t.Fatal("valid = true, want false")
	}
	if result.Message != MessageLength {
		t.Fatalf("message = %q, want %q", result.Message, MessageLength)
	}
	if fake.AppearanceCalls != 0 {
		t.Fatalf("oracle was queried %d times, want 0", fake.AppearanceCalls)
	}

	result = Validate(context.Background(), fake, 100, 200, nil)
	if result.Message != MessageLength {
		t.Fatalf("message = %q, want %q", result.Message, MessageLength)
	}
	if fake.AppearanceCalls != 0 {
		t.Fatalf("oracle was queried %d times, want 0", fake.AppearanceCalls)
	}
}

func TestValidateMissingFieldSkipsOracle(t *testing.T) {
	fake := oracle.NewFake()
	result := Validate(context.Background(), fake, 100, 200, []domain.Connection{{ActorID: 100}})
	if result.Message != MessageMissingField {
		t.Fatalf("message = %q, want %q", result.Message, MessageMissingField)
	}
	if fake.AppearanceCalls != 0 {
		t.Fatalf("oracle was queried %d times, want 0", fake.AppearanceCalls)
	}
}

func TestValidateStartFailureWinsOverLaterBreaks(t *testing.T) {
	fake := oracle.NewFake()
	chain := []domain.Connection{
		{ActorID: 10, ActorName: "A", MovieID: 1, MovieTitle: "M1"},
		{ActorID: 20, ActorName: "B", MovieID: 2, MovieTitle: "M2"},
		{ActorID: 30, ActorName: "C", MovieID: 3, MovieTitle: "M3"},
	}
	// Everything passes except the start check and the internal check at
	// index 2; the start failure must be the one reported.
	fake.AddAppearance(10, 1)
	fake.AddAppearance(20, 1)
	fake.AddAppearance(20, 2)
	fake.AddAppearance(30, 2)
	fake.AddAppearance(200, 3)

	result := Validate(context.Background(), fake, 100, 200, chain)
	if result.Valid {
		t.Fatal("valid = true, want false")
	}
	if !strings.Contains(result.Message, "starting actor") {
		t.Fatalf("message = %q, want the start-check failure", result.Message)
	}
}

func TestValidateEndFailureReportedLast(t *testing.T) {
	fake := oracle.NewFake()
	wireTwoLinkChain(fake)

	result := Validate(context.Background(), fake, 100, 999, twoLinkChain())
	if result.Valid {
		t.Fatal("valid = true, want false")
	}
	if !strings.Contains(result.Message, "ending actor") {
		t.Fatalf("message = %q, want the end-check failure", result.Message)
	}
}

func TestValidateOracleErrorIsNotAFault(t *testing.T) {
	fake := oracle.NewFake()
	wireTwoLinkChain(fake)
	fake.FailWith(errors.New("metadata service unreachable"))

	result := Validate(context.Background(), fake, 100, 200, twoLinkChain())
	if result.Valid {
		t.Fatal("valid = true, want false")
	}
	if result.Message != MessageUnavailable {
		t.Fatalf("message = %q, want %q", result.Message, MessageUnavailable)
	}
}

func TestValidateSingleConnectionChain(t *testing.T) {
	fake := oracle.NewFake()
	fake.AddAppearance(100, 1)
	fake.AddAppearance(200, 1)

	chain := []domain.Connection{{ActorID: 100, ActorName: "Start Actor", MovieID: 1, MovieTitle: "Only Movie"}}
	result := Validate(context.Background(), fake, 100, 200, chain)
	if !result.Valid {
		t.Fatalf("valid = false (%q), want true", result.Message)
	}
	if result.Moves != 1 {
		t.Fatalf("moves = %d, want 1", result.Moves)
	}
}
