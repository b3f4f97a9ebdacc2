package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/trendforge/internal/fetch"
	"github.com/jonathan/trendforge/internal/types"
)

// DefaultHackerNewsURL is the Algolia search endpoint for Hacker News.
const DefaultHackerNewsURL = "https://hn.algolia.com/api/v1/search"

// HackerNews fetches front-page stories via the Algolia API. No API key is
// required.
type HackerNews struct {
	BaseURL string
	Limit   int
}

// NewHackerNews creates the adapter with the public endpoint.
func NewHackerNews(limit int) *HackerNews {
	if limit <= 0 {
		limit = 10
	}
	return &HackerNews{BaseURL: DefaultHackerNewsURL, Limit: limit}
}

// Source implements Adapter.
func (h *HackerNews) Source() string { return "hackernews" }

type hnHit struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
}

type hnResponse struct {
	Hits []hnHit `json:"hits"`
}

// Fetch implements Adapter.
func (h *HackerNews) Fetch(ctx context.Context) []types.Candidate {
	url := fmt.Sprintf("%s?tags=front_page&hitsPerPage=%d", h.BaseURL, h.Limit)

	result, err := fetch.Get(ctx, url, nil)
	if err != nil {
		return []types.Candidate{types.ErrorCandidate(h.Source(), err.Error())}
	}

	var parsed hnResponse
	if err := json.Unmarshal([]byte(result.Body), &parsed); err != nil {
		return []types.Candidate{types.ErrorCandidate(h.Source(), fmt.Sprintf("decoding response: %v", err))}
	}

	candidates := make([]types.Candidate, 0, len(parsed.Hits))
	for _, hit := range parsed.Hits {
		candidates = append(candidates, types.Candidate{
			Source: h.Source(),
			Title:  hit.Title,
			URL:    hit.URL,
			Score:  hit.Points,
			Extra:  map[string]any{"comments": hit.NumComments},
		})
	}
	return candidates
}
