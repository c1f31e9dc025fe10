package domain

import (
	"errors"
	"math/rand"
	"testing"
)

func testPool() []Candidate {
	return []Candidate{
		{Actor: ActorRef{ID: 1, Name: "Actor One"}, Band: TierEasy},
		{Actor: ActorRef{ID: 2, Name: "Actor Two"}, Band: TierEasy},
		{Actor: ActorRef{ID: 3, Name: "Actor Three"}, Band: TierEasy},
		{Actor: ActorRef{ID: 4, Name: "Actor Four"}, Band: TierMedium},
		{Actor: ActorRef{ID: 5, Name: "Actor Five"}, Band: TierMedium},
		{Actor: ActorRef{ID: 6, Name: "Actor Six"}, Band: TierMedium},
		{Actor: ActorRef{ID: 7, Name: "Actor Seven"}, Band: TierHard},
		{Actor: ActorRef{ID: 8, Name: "Actor Eight"}, Band: TierHard},
		{Actor: ActorRef{ID: 9, Name: "Actor Nine"}, Band: TierHard},
	}
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestSelectPairPicksDistinctBandedActors(t *testing.T) {
	pair, relaxed, err := SelectPair(testPool(), TierMedium, NewExclusionSet(), testRand())
	if err != nil {
		t.Fatalf("select pair: %v", err)
	}
	if relaxed {
		t.Fatal("expected banded selection, got relaxed")
	}
	if pair.Start.ID == pair.End.ID {
		t.Fatalf("pair reused actor %d on both ends", pair.Start.ID)
	}
	for _, actorID := range []int64{pair.Start.ID, pair.End.ID} {
		if actorID < 4 || actorID > 6 {
			t.Fatalf("actor %d is outside the medium band", actorID)
		}
	}
}

func TestSelectPairSkipsExcludedActors(t *testing.T) {
	exclude := NewExclusionSet()
	exclude.Add(4)
	for i := 0; i < 50; i++ {
		pair, _, err := SelectPair(testPool(), TierMedium, exclude, testRand())
		if err != nil {
			t.Fatalf("select pair: %v", err)
		}
		if pair.Start.ID == 4 || pair.End.ID == 4 {
			t.Fatal("excluded actor 4 was selected")
		}
	}
}

func TestSelectPairRelaxesWhenBandTooSmall(t *testing.T) {
	exclude := NewExclusionSet()
	exclude.Add(4, 5)
	pair, relaxed, err := SelectPair(testPool(), TierMedium, exclude, testRand())
	if err != nil {
		t.Fatalf("select pair: %v", err)
	}
	if !relaxed {
		t.Fatal("expected relaxed selection with one banded candidate left")
	}
	if exclude.Contains(pair.Start.ID) || exclude.Contains(pair.End.ID) {
		t.Fatal("relaxed selection used an excluded actor")
	}
}

func TestSelectPairPoolExhausted(t *testing.T) {
	pool := []Candidate{{Actor: ActorRef{ID: 1}, Band: TierEasy}}
	_, _, err := SelectPair(pool, TierEasy, NewExclusionSet(), testRand())
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("err = %v, want ErrPoolExhausted", err)
	}
}

func TestSelectPairExhaustedAfterExclusion(t *testing.T) {
	exclude := NewExclusionSet()
	for id := int64(1); id <= 8; id++ {
		exclude.Add(id)
	}
	_, _, err := SelectPair(testPool(), TierHard, exclude, testRand())
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("err = %v, want ErrPoolExhausted", err)
	}
}
