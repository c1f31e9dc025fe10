// Package oracle defines the movie-metadata capability consumed by the
// challenge engine.
package oracle

import (
	"context"

	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
)

// Movie identifies one film returned by hint lookups.
type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"`
}

// ActorMovieOracle answers appearance questions and supplies candidate
// actors. Implementations are external metadata providers; the engine never
// depends on how the pool was filtered or scored.
type ActorMovieOracle interface {
	// ActorAppearsInMovie reports whether the actor is credited in the movie.
	ActorAppearsInMovie(ctx context.Context, actorID, movieID int64) (bool, error)

	// CandidatePool returns the pre-filtered, deduplicated actors eligible
	// for pair selection, each carrying its opaque difficulty band.
	CandidatePool(ctx context.Context) ([]domain.Candidate, error)

	// HintMovies returns up to count notable movies for the actor, used as
	// hint content.
	HintMovies(ctx context.Context, actorID int64, count int) ([]Movie, error)
}
