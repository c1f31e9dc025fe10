package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/louisbranch/costar.quest/internal/platform/timeouts"
	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
)

// HTTPClient is an ActorMovieOracle backed by the metadata service's JSON
// API. The metadata service owns all filtering and scoring heuristics; this
// client only moves bytes.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a metadata oracle client for the given base URL.
func NewHTTPClient(baseURL string) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("oracle base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse oracle base url: %w", err)
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeouts.OracleRequest},
	}, nil
}

// ActorAppearsInMovie queries the credit-membership endpoint.
func (c *HTTPClient) ActorAppearsInMovie(ctx context.Context, actorID, movieID int64) (bool, error) {
	var payload struct {
		Appears bool `json:"appears"`
	}
	endpoint := fmt.Sprintf("%s/v1/actors/%d/movies/%d", c.baseURL, actorID, movieID)
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return false, err
	}
	return payload.Appears, nil
}

// CandidatePool fetches the pre-filtered candidate actors.
func (c *HTTPClient) CandidatePool(ctx context.Context) ([]domain.Candidate, error) {
	var payload struct {
		Actors []struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			ImagePath string `json:"imagePath"`
			Band      string `json:"band"`
		} `json:"actors"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/v1/candidates", &payload); err != nil {
		return nil, err
	}
	pool := make([]domain.Candidate, 0, len(payload.Actors))
	for _, actor := range payload.Actors {
		band, err := domain.ParseTier(actor.Band)
		if err != nil {
			// Unbanded actors stay selectable through the relaxed path.
			band = ""
		}
		pool = append(pool, domain.Candidate{
			Actor: domain.ActorRef{ID: actor.ID, Name: actor.Name, ImagePath: actor.ImagePath},
			Band:  band,
		})
	}
	return pool, nil
}

// HintMovies fetches notable movies for an actor.
func (c *HTTPClient) HintMovies(ctx context.Context, actorID int64, count int) ([]Movie, error) {
	var payload struct {
		Movies []Movie `json:"movies"`
	}
	endpoint := fmt.Sprintf("%s/v1/actors/%d/hints?count=%s", c.baseURL, actorID, strconv.Itoa(count))
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Movies, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build oracle request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("oracle request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oracle request %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode oracle response: %w", err)
	}
	return nil
}

var _ ActorMovieOracle = (*HTTPClient)(nil)
