// Package chain validates submitted actor-movie solution chains.
package chain

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
	"github.com/louisbranch/costar.quest/internal/services/challenge/oracle"
)

const (
	// MessageValid confirms a complete chain.
	MessageValid = "you connected them!"
	// MessageLength rejects chains outside the 1..6 bound.
	MessageLength = "a chain must contain between 1 and 6 connections"
	// MessageMissingField rejects chains with zero actor or movie ids.
	MessageMissingField = "every connection needs an actor and a movie"
	// MessageUnavailable is returned when the oracle cannot be reached.
	MessageUnavailable = "unable to validate your chain right now, try again"
)

// Result is the outcome of validating one submitted chain.
type Result struct {
	Valid     bool
	Completed bool
	Moves     int
	Message   string
}

// checkSet holds the outcome of every oracle lookup one chain requires.
// Index layout mirrors the chain: internal[i] is connection i's own credit,
// continuity[i] links connection i+1's actor back into connection i's movie.
type checkSet struct {
	start      bool
	end        bool
	internal   []bool
	continuity []bool
}

// Validate checks a submitted chain against the oracle. All membership
// lookups run concurrently; results are then evaluated in a fixed priority
// order so the reported break is always the earliest logical one, not
// whichever lookup settled first.
func Validate(ctx context.Context, source oracle.ActorMovieOracle, startActorID, endActorID int64, connections []domain.Connection) Result {
	if len(connections) == 0 || len(connections) > domain.MaxChainLength {
		return Result{Message: MessageLength}
	}
	for _, connection := range connections {
		if connection.ActorID == 0 || connection.MovieID == 0 {
			return Result{Message: MessageMissingField}
		}
	}

	ctx, span := otel.Tracer("challenge/chain").Start(ctx, "chain.Validate",
		trace.WithAttributes(attribute.Int("chain.connections", len(connections))))
	defer span.End()

	checks, err := runChecks(ctx, source, startActorID, endActorID, connections)
	if err != nil {
		// A flaky oracle must not surface as a fault; the player retries.
		return Result{Message: MessageUnavailable}
	}

	if message, broken := checks.firstFailure(connections); broken {
		return Result{Message: message}
	}
	return Result{
		Valid:     true,
		Completed: true,
		Moves:     len(connections),
		Message:   MessageValid,
	}
}

// runChecks fans out every oracle lookup concurrently and gathers all
// results before returning. The lookups are independent reads, so no
// ordering between them is needed or assumed.
func runChecks(ctx context.Context, source oracle.ActorMovieOracle, startActorID, endActorID int64, connections []domain.Connection) (*checkSet, error) {
	last := len(connections) - 1
	checks := &checkSet{
		internal:   make([]bool, len(connections)),
		continuity: make([]bool, last),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	appears := func(target *bool, actorID, movieID int64) {
		group.Go(func() error {
			ok, err := source.ActorAppearsInMovie(groupCtx, actorID, movieID)
			if err != nil {
				return fmt.Errorf("check actor %d in movie %d: %w", actorID, movieID, err)
			}
			*target = ok
			return nil
		})
	}

	appears(&checks.start, startActorID, connections[0].MovieID)
	appears(&checks.end, endActorID, connections[last].MovieID)
	for i := range connections {
		appears(&checks.internal[i], connections[i].ActorID, connections[i].MovieID)
		if i < last {
			appears(&checks.continuity[i], connections[i+1].ActorID, connections[i].MovieID)
		}
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return checks, nil
}

// firstFailure walks the gathered results in diagnostic priority order: the
// start check, then per index the internal check followed by its continuity
// check, then the end check. The first failed check names the break.
func (c *checkSet) firstFailure(connections []domain.Connection) (string, bool) {
	if !c.start {
		return fmt.Sprintf("the starting actor does not appear in %s", movieLabel(connections[0])), true
	}
	for i := range connections {
		if !c.internal[i] {
			return fmt.Sprintf("connection %d: %s does not appear in %s", i+1, actorLabel(connections[i]), movieLabel(connections[i])), true
		}
		if i < len(c.continuity) && !c.continuity[i] {
			return fmt.Sprintf("connection %d: %s does not share %s with the previous link", i+2, actorLabel(connections[i+1]), movieLabel(connections[i])), true
		}
	}
	if !c.end {
		return fmt.Sprintf("the ending actor does not appear in %s", movieLabel(connections[len(connections)-1])), true
	}
	return "", false
}

func actorLabel(connection domain.Connection) string {
	if connection.ActorName != "" {
		return connection.ActorName
	}
	return fmt.Sprintf("actor %d", connection.ActorID)
}

func movieLabel(connection domain.Connection) string {
	if connection.MovieTitle != "" {
		return connection.MovieTitle
	}
	return fmt.Sprintf("movie %d", connection.MovieID)
}
