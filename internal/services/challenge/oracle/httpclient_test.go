package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
)

func TestHTTPClientActorAppearsInMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/actors/100/movies/1" {
			t.Errorf("path = %q, want /v1/actors/100/movies/1", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"appears":true}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	appears, err := client.ActorAppearsInMovie(context.Background(), 100, 1)
	if err != nil {
		t.Fatalf("actor appears in movie: %v", err)
	}
	if !appears {
		t.Fatal("appears = false, want true")
	}
}

func TestHTTPClientCandidatePoolKeepsUnbandedActors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"actors":[
			{"id":1,"name":"Banded Actor","imagePath":"profiles/a.jpg","band":"easy"},
			{"id":2,"name":"Unbanded Actor","imagePath":"profiles/b.jpg","band":"unknown"}
		]}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	pool, err := client.CandidatePool(context.Background())
	if err != nil {
		t.Fatalf("candidate pool: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("got %d candidates, want 2", len(pool))
	}
	if pool[0].Band != domain.TierEasy {
		t.Fatalf("pool[0].Band = %q, want easy", pool[0].Band)
	}
	if pool[1].Band != domain.Tier("") {
		t.Fatalf("pool[1].Band = %q, want empty", pool[1].Band)
	}
}

func TestHTTPClientSurfacesErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.HintMovies(context.Background(), 100, 3); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPClient("   "); err == nil {
		t.Fatal("expected error for blank base url")
	}
}
