package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/trendforge/internal/fetch"
	"github.com/jonathan/trendforge/internal/types"
)

// DefaultProductHuntURL is the ProductHunt GraphQL v2 endpoint.
const DefaultProductHuntURL = "https://api.producthunt.com/v2/api/graphql"

const productHuntQuery = `
query TrendingPosts($first: Int!) {
  posts(first: $first, order: VOTES) {
    edges {
      node {
        name
        tagline
        url
        votesCount
        commentsCount
        topics {
          edges { node { name } }
        }
      }
    }
  }
}`

// ProductHunt fetches trending products via the GraphQL v2 API. A missing
// API key short-circuits to an error marker without any network call.
type ProductHunt struct {
	BaseURL string
	APIKey  string
	Limit   int
}

// NewProductHunt creates the adapter against the public API.
func NewProductHunt(apiKey string, limit int) *ProductHunt {
	if limit <= 0 {
		limit = 10
	}
	return &ProductHunt{BaseURL: DefaultProductHuntURL, APIKey: apiKey, Limit: limit}
}

// Source implements Adapter.
func (p *ProductHunt) Source() string { return "producthunt" }

type phResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node struct {
					Name          string `json:"name"`
					Tagline       string `json:"tagline"`
					URL           string `json:"url"`
					VotesCount    int    `json:"votesCount"`
					CommentsCount int    `json:"commentsCount"`
					Topics        struct {
						Edges []struct {
							Node struct {
								Name string `json:"name"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"topics"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
}

// Fetch implements Adapter.
func (p *ProductHunt) Fetch(ctx context.Context) []types.Candidate {
	if p.APIKey == "" {
		return []types.Candidate{types.ErrorCandidate(p.Source(), "PRODUCTHUNT_API_KEY not set")}
	}

	payload, err := json.Marshal(map[string]any{
		"query":     productHuntQuery,
		"variables": map[string]any{"first": p.Limit},
	})
	if err != nil {
		return []types.Candidate{types.ErrorCandidate(p.Source(), err.Error())}
	}

	opts := fetch.DefaultOptions()
	opts.Headers = map[string]string{"Authorization": "Bearer " + p.APIKey}

	result, err := fetch.Post(ctx, p.BaseURL, "application/json", bytes.NewReader(payload), opts)
	if err != nil {
		return []types.Candidate{types.ErrorCandidate(p.Source(), err.Error())}
	}

	var parsed phResponse
	if err := json.Unmarshal([]byte(result.Body), &parsed); err != nil {
		return []types.Candidate{types.ErrorCandidate(p.Source(), fmt.Sprintf("decoding response: %v", err))}
	}

	edges := parsed.Data.Posts.Edges
	candidates := make([]types.Candidate, 0, len(edges))
	for _, edge := range edges {
		node := edge.Node
		topics := make([]string, 0, len(node.Topics.Edges))
		for _, t := range node.Topics.Edges {
			topics = append(topics, t.Node.Name)
		}
		candidates = append(candidates, types.Candidate{
			Source: p.Source(),
			Title:  node.Name,
			URL:    node.URL,
			Score:  node.VotesCount,
			Extra: map[string]any{
				"tagline":  node.Tagline,
				"comments": node.CommentsCount,
				"topics":   topics,
			},
		})
	}

	if len(candidates) == 0 {
		return []types.Candidate{types.ErrorCandidate(p.Source(), "API returned no posts")}
	}
	return candidates
}
