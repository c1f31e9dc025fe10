package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/costar.quest/internal/platform/id"
)

// MaxHintsPerChallenge caps the hints-remaining display. The stored counter
// is not clamped; remaining is computed from it.
const MaxHintsPerChallenge = 2

var (
	// ErrInvalidDay indicates a malformed challenge day key.
	ErrInvalidDay = errors.New("challenge day must be formatted YYYY-MM-DD")
	// ErrInvalidTier indicates an unknown difficulty tier.
	ErrInvalidTier = errors.New("challenge tier is invalid")
	// ErrInvalidStatus indicates an unknown lifecycle status.
	ErrInvalidStatus = errors.New("challenge status is invalid")
	// ErrSameActor indicates a pair using one actor on both ends.
	ErrSameActor = errors.New("start and end actors must differ")
)

// ActorRef identifies one end of a challenge pair.
type ActorRef struct {
	ID        int64
	Name      string
	ImagePath string
}

// ChallengeRecord is one daily puzzle instance.
type ChallengeRecord struct {
	ID         string
	Day        string
	Tier       Tier
	Status     RecordStatus
	StartActor ActorRef
	EndActor   ActorRef
	HintsUsed  int
	StartHint  string
	EndHint    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HintsRemaining returns the displayable hint budget left on the record.
func (r ChallengeRecord) HintsRemaining() int {
	remaining := MaxHintsPerChallenge - r.HintsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ActorIDs returns both actor ids of the pair.
func (r ChallengeRecord) ActorIDs() []int64 {
	return []int64{r.StartActor.ID, r.EndActor.ID}
}

// NewChallengeRecord creates a challenge record with a generated id and
// sanitized actor image paths.
func NewChallengeRecord(day string, tier Tier, status RecordStatus, pair Pair, now func() time.Time, idGenerator func() (string, error)) (ChallengeRecord, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if !ValidDay(day) {
		return ChallengeRecord{}, ErrInvalidDay
	}
	if !tier.Valid() {
		return ChallengeRecord{}, ErrInvalidTier
	}
	if !status.Valid() {
		return ChallengeRecord{}, ErrInvalidStatus
	}
	if pair.Start.ID == pair.End.ID {
		return ChallengeRecord{}, ErrSameActor
	}

	recordID, err := idGenerator()
	if err != nil {
		return ChallengeRecord{}, fmt.Errorf("generate challenge id: %w", err)
	}

	start := pair.Start
	end := pair.End
	start.ImagePath = SanitizeImagePath(start.ImagePath)
	end.ImagePath = SanitizeImagePath(end.ImagePath)

	createdAt := now().UTC()
	return ChallengeRecord{
		ID:         recordID,
		Day:        day,
		Tier:       tier,
		Status:     status,
		StartActor: start,
		EndActor:   end,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}

// SanitizeImagePath normalizes an oracle-provided image reference down to a
// relative path. Absolute URLs lose scheme and host; leading slashes are
// trimmed so stored paths are always relative.
func SanitizeImagePath(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if parsed, err := url.Parse(ref); err == nil && parsed.Host != "" {
		ref = parsed.Path
	}
	return strings.TrimLeft(ref, "/")
}
