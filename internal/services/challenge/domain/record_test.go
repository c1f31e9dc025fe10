package domain

import (
	"errors"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	}
}

func TestNewChallengeRecordSanitizesImagePaths(t *testing.T) {
	pair := Pair{
		Start: ActorRef{ID: 100, Name: "Start", ImagePath: "https://images.example.com/profiles/abc.jpg"},
		End:   ActorRef{ID: 200, Name: "End", ImagePath: "/profiles/def.jpg"},
	}
	record, err := NewChallengeRecord("2026-08-31", TierEasy, StatusActive, pair, fixedClock(), nil)
	if err != nil {
		t.Fatalf("new challenge record: %v", err)
	}
	if record.StartActor.ImagePath != "profiles/abc.jpg" {
		t.Fatalf("start image = %q, want profiles/abc.jpg", record.StartActor.ImagePath)
	}
	if record.EndActor.ImagePath != "profiles/def.jpg" {
		t.Fatalf("end image = %q, want profiles/def.jpg", record.EndActor.ImagePath)
	}
	if record.ID == "" {
		t.Fatal("expected generated id")
	}
	if record.HintsUsed != 0 {
		t.Fatalf("hints used = %d, want 0", record.HintsUsed)
	}
}

func TestNewChallengeRecordRejectsBadInput(t *testing.T) {
	pair := Pair{Start: ActorRef{ID: 1}, End: ActorRef{ID: 2}}
	if _, err := NewChallengeRecord("31/08/2026", TierEasy, StatusActive, pair, fixedClock(), nil); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("err = %v, want ErrInvalidDay", err)
	}
	if _, err := NewChallengeRecord("2026-08-31", Tier("expert"), StatusActive, pair, fixedClock(), nil); !errors.Is(err, ErrInvalidTier) {
		t.Fatalf("err = %v, want ErrInvalidTier", err)
	}
	if _, err := NewChallengeRecord("2026-08-31", TierEasy, RecordStatus("pending"), pair, fixedClock(), nil); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	same := Pair{Start: ActorRef{ID: 1}, End: ActorRef{ID: 1}}
	if _, err := NewChallengeRecord("2026-08-31", TierEasy, StatusActive, same, fixedClock(), nil); !errors.Is(err, ErrSameActor) {
		t.Fatalf("err = %v, want ErrSameActor", err)
	}
}

func TestHintsRemainingClampsAtZero(t *testing.T) {
	record := ChallengeRecord{HintsUsed: 0}
	if got := record.HintsRemaining(); got != 2 {
		t.Fatalf("remaining = %d, want 2", got)
	}
	record.HintsUsed = 2
	if got := record.HintsRemaining(); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
	// The raw counter is not clamped; only the display value is.
	record.HintsUsed = 5
	if got := record.HintsRemaining(); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
}

func TestSanitizeImagePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"profiles/abc.jpg", "profiles/abc.jpg"},
		{"/profiles/abc.jpg", "profiles/abc.jpg"},
		{"https://cdn.example.com/w500/abc.jpg", "w500/abc.jpg"},
		{"http://cdn.example.com/abc.jpg?size=large", "abc.jpg"},
		{"  /padded.jpg ", "padded.jpg"},
	}
	for _, tc := range cases {
		if got := SanitizeImagePath(tc.in); got != tc.want {
			t.Fatalf("SanitizeImagePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
