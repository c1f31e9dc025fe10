// Package lifecycle owns the daily challenge record state machine:
// generation, day-rollover promotion, and hint bookkeeping.
package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/louisbranch/costar.quest/internal/random"
	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
	"github.com/louisbranch/costar.quest/internal/services/challenge/oracle"
	"github.com/louisbranch/costar.quest/internal/services/challenge/storage"
	"golang.org/x/sync/singleflight"
)

const hintMovieCount = 3

var (
	// ErrUnavailable indicates no tier could be filled for the day.
	ErrUnavailable = errors.New("daily challenges are unavailable")
	// ErrInvalidHintSide indicates an unknown hint side.
	ErrInvalidHintSide = errors.New(`hint side must be "start" or "end"`)
)

// Manager coordinates challenge record lifecycle against storage and the
// metadata oracle. Safe for concurrent use.
type Manager struct {
	store  storage.ChallengeStore
	oracle oracle.ActorMovieOracle
	clock  func() time.Time
	// ensureGroup is the keyed in-flight registry for daily generation: all
	// concurrent ensure calls for one day share a single generation attempt.
	// The key is forgotten once the attempt settles, so a new day (or a
	// retry after failure) always starts fresh.
	ensureGroup singleflight.Group
	// newRand builds the random source for one generation pass. Overridable
	// in tests for determinism.
	newRand func() (*rand.Rand, error)
}

// NewManager creates a lifecycle manager.
func NewManager(store storage.ChallengeStore, source oracle.ActorMovieOracle) *Manager {
	return &Manager{
		store:   store,
		oracle:  source,
		clock:   time.Now,
		newRand: seededRand,
	}
}

func seededRand() (*rand.Rand, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return nil, fmt.Errorf("seed generation rng: %w", err)
	}
	return rand.New(rand.NewSource(seed)), nil
}

// EnsureDaily guarantees challenge records exist for every fillable tier of
// the given day and returns them sorted by tier rank. Concurrent callers for
// the same day share one generation attempt; duplicate-insert conflicts from
// other processes are treated as success by the other writer. A result with
// fewer than three records is degraded but not an error; zero records is
// ErrUnavailable.
func (m *Manager) EnsureDaily(ctx context.Context, day string) ([]domain.ChallengeRecord, error) {
	if m == nil || m.store == nil {
		return nil, fmt.Errorf("lifecycle manager is not configured")
	}
	if !domain.ValidDay(day) {
		return nil, domain.ErrInvalidDay
	}

	existing, err := m.activeRecords(ctx, day)
	if err != nil {
		return nil, err
	}
	if len(missingTiers(existing)) == 0 {
		return existing, nil
	}

	// First line of defense: one in-flight generation per day. The storage
	// unique index on active (day, tier) is the correctness backstop.
	_, err, _ = m.ensureGroup.Do(day, func() (any, error) {
		defer m.ensureGroup.Forget(day)
		return nil, m.generateMissing(ctx, day)
	})
	if err != nil {
		return nil, err
	}

	records, err := m.activeRecords(ctx, day)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrUnavailable
	}
	return records, nil
}

// ForceRegenerate deletes every record for the day and regenerates all
// three tiers from scratch.
func (m *Manager) ForceRegenerate(ctx context.Context, day string) ([]domain.ChallengeRecord, error) {
	if m == nil || m.store == nil {
		return nil, fmt.Errorf("lifecycle manager is not configured")
	}
	if !domain.ValidDay(day) {
		return nil, domain.ErrInvalidDay
	}
	if err := m.store.DeleteChallengesByDay(ctx, day); err != nil {
		return nil, fmt.Errorf("clear challenges for %s: %w", day, err)
	}
	return m.EnsureDaily(ctx, day)
}

// generateMissing fills every missing active tier for the day, excluding
// yesterday's actors and actors already committed to today.
func (m *Manager) generateMissing(ctx context.Context, day string) error {
	existing, err := m.store.ListChallengesByDay(ctx, day)
	if err != nil {
		return fmt.Errorf("list challenges for %s: %w", day, err)
	}
	var active []domain.ChallengeRecord
	for _, record := range existing {
		if record.Status == domain.StatusActive {
			active = append(active, record)
		}
	}
	missing := missingTiers(active)
	if len(missing) == 0 {
		return nil
	}

	exclude, err := m.exclusionsFor(ctx, day, active)
	if err != nil {
		return err
	}
	pool, err := m.oracle.CandidatePool(ctx)
	if err != nil {
		return fmt.Errorf("fetch candidate pool: %w", err)
	}
	rng, err := m.newRand()
	if err != nil {
		return err
	}

	for _, tier := range missing {
		pair, err := domain.GenerateOne(pool, tier, exclude, rng)
		if err != nil {
			log.Printf("generate %s %s challenge: %v", day, tier, err)
			continue
		}
		if err := m.persistPair(ctx, day, tier, domain.StatusActive, pair); err != nil {
			return err
		}
		exclude.Add(pair.Start.ID, pair.End.ID)
	}
	return nil
}

// exclusionsFor builds the exclusion set from yesterday's records plus the
// actors already committed to the day being generated.
func (m *Manager) exclusionsFor(ctx context.Context, day string, committed []domain.ChallengeRecord) (domain.ExclusionSet, error) {
	previousDay, err := domain.ShiftDay(day, -1)
	if err != nil {
		return nil, err
	}
	previous, err := m.store.ListChallengesByDay(ctx, previousDay)
	if err != nil {
		return nil, fmt.Errorf("list challenges for %s: %w", previousDay, err)
	}

	var previousIDs, committedIDs []int64
	for _, record := range previous {
		previousIDs = append(previousIDs, record.ActorIDs()...)
	}
	for _, record := range committed {
		committedIDs = append(committedIDs, record.ActorIDs()...)
	}
	return domain.BuildExclusionSet(previousIDs, committedIDs), nil
}

// persistPair stores one generated pair. A duplicate-key conflict means a
// concurrent writer already created this (day, tier); that is success.
func (m *Manager) persistPair(ctx context.Context, day string, tier domain.Tier, status domain.RecordStatus, pair domain.Pair) error {
	record, err := domain.NewChallengeRecord(day, tier, status, pair, m.clock, nil)
	if err != nil {
		return fmt.Errorf("build %s %s challenge: %w", day, tier, err)
	}
	if err := m.store.PutChallenge(ctx, record); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			log.Printf("challenge for %s %s already created concurrently", day, tier)
			return nil
		}
		return fmt.Errorf("persist %s %s challenge: %w", day, tier, err)
	}
	return nil
}

// PromoteNextToActive performs the day rollover: stale actives are removed,
// prepared next records become today's actives, and fresh next records are
// generated for tomorrow excluding everything just promoted. Safe to re-run;
// a retried trigger finds no missing tiers and does nothing.
func (m *Manager) PromoteNextToActive(ctx context.Context, today, tomorrow string) error {
	if m == nil || m.store == nil {
		return fmt.Errorf("lifecycle manager is not configured")
	}
	if !domain.ValidDay(today) || !domain.ValidDay(tomorrow) {
		return domain.ErrInvalidDay
	}

	removed, err := m.store.DeleteStaleActive(ctx, today)
	if err != nil {
		return fmt.Errorf("clear stale active challenges: %w", err)
	}
	if removed > 0 {
		log.Printf("removed %d stale active challenges before promotion", removed)
	}

	active, err := m.activeRecords(ctx, today)
	if err != nil {
		return err
	}
	promoted := domain.NewExclusionSet()
	for _, record := range active {
		promoted.Add(record.ActorIDs()...)
	}

	nextRecords, err := m.store.ListChallengesByStatus(ctx, domain.StatusNext)
	if err != nil {
		return fmt.Errorf("list next challenges: %w", err)
	}

	for _, tier := range missingTiers(active) {
		record, ok := pickNextRecord(nextRecords, tier, today)
		if !ok {
			// Nothing staged for this tier; generate a fresh active.
			if err := m.generateReplacement(ctx, today, tier, promoted); err != nil {
				log.Printf("promote %s tier for %s: %v", tier, today, err)
			}
			continue
		}
		if err := domain.ValidateTransition(record.Status, domain.StatusActive); err != nil {
			return fmt.Errorf("promote challenge %s: %w", record.ID, err)
		}
		if err := m.store.UpdateChallengeStatusDay(ctx, record.ID, today, domain.StatusActive); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				log.Printf("active challenge for %s %s already exists, skipping promotion", today, tier)
				continue
			}
			return fmt.Errorf("promote challenge %s: %w", record.ID, err)
		}
		promoted.Add(record.StartActor.ID, record.EndActor.ID)
		// Older duplicate next records for this tier lose the race and are
		// removed to restore the one-next-per-tier invariant.
		for _, duplicate := range duplicateNextRecords(nextRecords, tier, record.ID) {
			if err := m.store.DeleteChallenge(ctx, duplicate.ID); err != nil {
				log.Printf("delete duplicate next challenge %s: %v", duplicate.ID, err)
			}
		}
	}

	return m.stageNextDay(ctx, tomorrow, promoted)
}

// generateReplacement creates a best-effort active record for a tier that
// had nothing staged, excluding actors already placed today.
func (m *Manager) generateReplacement(ctx context.Context, day string, tier domain.Tier, exclude domain.ExclusionSet) error {
	pool, err := m.oracle.CandidatePool(ctx)
	if err != nil {
		return fmt.Errorf("fetch candidate pool: %w", err)
	}
	rng, err := m.newRand()
	if err != nil {
		return err
	}
	pair, err := domain.GenerateOne(pool, tier, exclude, rng)
	if err != nil {
		return err
	}
	if err := m.persistPair(ctx, day, tier, domain.StatusActive, pair); err != nil {
		return err
	}
	exclude.Add(pair.Start.ID, pair.End.ID)
	return nil
}

// stageNextDay generates next-status records for tomorrow for every tier
// that does not already have one, excluding the actors active today.
func (m *Manager) stageNextDay(ctx context.Context, tomorrow string, exclude domain.ExclusionSet) error {
	staged, err := m.store.ListChallengesByStatus(ctx, domain.StatusNext)
	if err != nil {
		return fmt.Errorf("list next challenges: %w", err)
	}
	stagedTiers := make(map[domain.Tier]bool, len(staged))
	for _, record := range staged {
		if record.Day == tomorrow {
			stagedTiers[record.Tier] = true
			exclude.Add(record.ActorIDs()...)
		}
	}

	var needed []domain.Tier
	for _, tier := range domain.Tiers() {
		if !stagedTiers[tier] {
			needed = append(needed, tier)
		}
	}
	if len(needed) == 0 {
		return nil
	}

	pool, err := m.oracle.CandidatePool(ctx)
	if err != nil {
		return fmt.Errorf("fetch candidate pool: %w", err)
	}
	rng, err := m.newRand()
	if err != nil {
		return err
	}
	for _, tier := range needed {
		pair, err := domain.GenerateOne(pool, tier, exclude, rng)
		if err != nil {
			log.Printf("stage %s %s challenge: %v", tomorrow, tier, err)
			continue
		}
		if err := m.persistPair(ctx, tomorrow, tier, domain.StatusNext, pair); err != nil {
			return err
		}
		exclude.Add(pair.Start.ID, pair.End.ID)
	}
	return nil
}

// RecordHint returns hint content for one side of a challenge, generating
// and persisting it on first request. Hint content is immutable: repeat
// requests return the stored payload and leave the counter untouched.
func (m *Manager) RecordHint(ctx context.Context, challengeID string, side storage.HintSide) (string, error) {
	if m == nil || m.store == nil {
		return "", fmt.Errorf("lifecycle manager is not configured")
	}
	if !side.Valid() {
		return "", ErrInvalidHintSide
	}

	record, err := m.store.GetChallenge(ctx, challengeID)
	if err != nil {
		return "", fmt.Errorf("load challenge %s: %w", challengeID, err)
	}
	if cached := hintPayload(record, side); cached != "" {
		return cached, nil
	}

	actorID := record.StartActor.ID
	if side == storage.HintEnd {
		actorID = record.EndActor.ID
	}
	movies, err := m.oracle.HintMovies(ctx, actorID, hintMovieCount)
	if err != nil {
		return "", fmt.Errorf("fetch hint movies for actor %d: %w", actorID, err)
	}
	payload, err := json.Marshal(movies)
	if err != nil {
		return "", fmt.Errorf("encode hint payload: %w", err)
	}

	wrote, err := m.store.SetChallengeHint(ctx, challengeID, side, string(payload))
	if err != nil {
		return "", fmt.Errorf("persist hint for challenge %s: %w", challengeID, err)
	}
	if !wrote {
		// Another request won the write; serve the stored payload so the
		// content every player sees stays identical.
		record, err = m.store.GetChallenge(ctx, challengeID)
		if err != nil {
			return "", fmt.Errorf("reload challenge %s: %w", challengeID, err)
		}
		return hintPayload(record, side), nil
	}
	if err := m.store.IncrementHintsUsed(ctx, challengeID); err != nil {
		return "", fmt.Errorf("count hint for challenge %s: %w", challengeID, err)
	}
	return string(payload), nil
}

// activeRecords returns the day's active records sorted by tier rank.
func (m *Manager) activeRecords(ctx context.Context, day string) ([]domain.ChallengeRecord, error) {
	records, err := m.store.ListChallengesByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list challenges for %s: %w", day, err)
	}
	active := make([]domain.ChallengeRecord, 0, len(records))
	for _, record := range records {
		if record.Status == domain.StatusActive {
			active = append(active, record)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].Tier.Rank() < active[j].Tier.Rank()
	})
	return active, nil
}

// missingTiers lists tiers without a record, in generation order.
func missingTiers(records []domain.ChallengeRecord) []domain.Tier {
	present := make(map[domain.Tier]bool, len(records))
	for _, record := range records {
		present[record.Tier] = true
	}
	var missing []domain.Tier
	for _, tier := range domain.Tiers() {
		if !present[tier] {
			missing = append(missing, tier)
		}
	}
	return missing
}

// pickNextRecord chooses the staged record to promote for a tier,
// preferring one already dated for the day being promoted and falling back
// to any next record so date drift never blocks promotion.
func pickNextRecord(nextRecords []domain.ChallengeRecord, tier domain.Tier, preferDay string) (domain.ChallengeRecord, bool) {
	var fallback domain.ChallengeRecord
	var found bool
	for _, record := range nextRecords {
		if record.Tier != tier {
			continue
		}
		if record.Day == preferDay {
			return record, true
		}
		if !found {
			fallback = record
			found = true
		}
	}
	return fallback, found
}

// duplicateNextRecords returns next records for the tier other than keepID.
func duplicateNextRecords(nextRecords []domain.ChallengeRecord, tier domain.Tier, keepID string) []domain.ChallengeRecord {
	var duplicates []domain.ChallengeRecord
	for _, record := range nextRecords {
		if record.Tier == tier && record.ID != keepID {
			duplicates = append(duplicates, record)
		}
	}
	return duplicates
}

func hintPayload(record domain.ChallengeRecord, side storage.HintSide) string {
	if side == storage.HintEnd {
		return record.EndHint
	}
	return record.StartHint
}
