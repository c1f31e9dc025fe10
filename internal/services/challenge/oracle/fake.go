package oracle

import (
	"context"
	"sync"

	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
)

// Fake is a deterministic in-memory oracle for tests and local development.
type Fake struct {
	mu          sync.Mutex
	pool        []domain.Candidate
	appearances map[int64]map[int64]bool
	hints       map[int64][]Movie
	err         error

	// Call counters for assertions on query behavior.
	AppearanceCalls int
	PoolCalls       int
	HintCalls       int
}

// NewFake creates an empty fake oracle.
func NewFake() *Fake {
	return &Fake{
		appearances: make(map[int64]map[int64]bool),
		hints:       make(map[int64][]Movie),
	}
}

// SetPool replaces the candidate pool.
func (f *Fake) SetPool(pool []domain.Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pool = append([]domain.Candidate(nil), pool...)
}

// AddAppearance records that the actor is credited in the movie.
func (f *Fake) AddAppearance(actorID, movieID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	movies, ok := f.appearances[actorID]
	if !ok {
		movies = make(map[int64]bool)
		f.appearances[actorID] = movies
	}
	movies[movieID] = true
}

// RemoveAppearance clears a previously recorded appearance.
func (f *Fake) RemoveAppearance(actorID, movieID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.appearances[actorID], movieID)
}

// SetHints sets the hint movies returned for the actor.
func (f *Fake) SetHints(actorID int64, movies []Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hints[actorID] = append([]Movie(nil), movies...)
}

// FailWith makes every subsequent call return err.
func (f *Fake) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// ActorAppearsInMovie reports recorded appearances.
func (f *Fake) ActorAppearsInMovie(ctx context.Context, actorID, movieID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AppearanceCalls++
	if f.err != nil {
		return false, f.err
	}
	return f.appearances[actorID][movieID], nil
}

// CandidatePool returns the configured pool.
func (f *Fake) CandidatePool(ctx context.Context) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PoolCalls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Candidate(nil), f.pool...), nil
}

// HintMovies returns up to count configured hint movies.
func (f *Fake) HintMovies(ctx context.Context, actorID int64, count int) ([]Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.HintCalls++
	if f.err != nil {
		return nil, f.err
	}
	movies := f.hints[actorID]
	if count > 0 && len(movies) > count {
		movies = movies[:count]
	}
	return append([]Movie(nil), movies...), nil
}

var _ ActorMovieOracle = (*Fake)(nil)
