package sources

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/jonathan/trendforge/internal/fetch"
	"github.com/jonathan/trendforge/internal/types"
)

// Default reddit endpoints. AuthURL issues app-only OAuth tokens; APIURL
// serves authenticated listing requests.
const (
	DefaultRedditAuthURL = "https://www.reddit.com/api/v1/access_token"
	DefaultRedditAPIURL  = "https://oauth.reddit.com"
)

// DefaultSubreddits are the communities scouted when none are configured.
const DefaultSubreddits = "startups,SideProject,programming,MachineLearning"

// Reddit fetches hot posts from tech/startup subreddits via the OAuth API.
// Missing credentials short-circuit to an error marker without any network
// call.
type Reddit struct {
	AuthURL      string
	APIURL       string
	ClientID     string
	ClientSecret string
	UserAgent    string
	Subreddits   string
	Limit        int
}

// NewReddit creates the adapter against the public reddit API.
func NewReddit(clientID, clientSecret, userAgent, subreddits string, limit int) *Reddit {
	if userAgent == "" {
		userAgent = "trendforge/1.0"
	}
	if subreddits == "" {
		subreddits = DefaultSubreddits
	}
	if limit <= 0 {
		limit = 10
	}
	return &Reddit{
		AuthURL:      DefaultRedditAuthURL,
		APIURL:       DefaultRedditAPIURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		UserAgent:    userAgent,
		Subreddits:   subreddits,
		Limit:        limit,
	}
}

// Source implements Adapter.
func (r *Reddit) Source() string { return "reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Score       int    `json:"score"`
				NumComments int    `json:"num_comments"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch implements Adapter.
func (r *Reddit) Fetch(ctx context.Context) []types.Candidate {
	if r.ClientID == "" || r.ClientSecret == "" {
		return []types.Candidate{types.ErrorCandidate(r.Source(), "REDDIT_CLIENT_ID/SECRET not set")}
	}

	token, err := r.authenticate(ctx)
	if err != nil {
		return []types.Candidate{types.ErrorCandidate(r.Source(), err.Error())}
	}

	var candidates []types.Candidate
	for _, sub := range strings.Split(r.Subreddits, ",") {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			continue
		}
		posts, err := r.fetchSubreddit(ctx, token, sub)
		if err != nil {
			log.Printf("warning: reddit r/%s failed: %v", sub, err)
			continue
		}
		candidates = append(candidates, posts...)
	}

	if len(candidates) == 0 {
		return []types.Candidate{types.ErrorCandidate(r.Source(), "no subreddit returned results")}
	}
	return candidates
}

func (r *Reddit) authenticate(ctx context.Context) (string, error) {
	basic := base64.StdEncoding.EncodeToString([]byte(r.ClientID + ":" + r.ClientSecret))
	opts := fetch.DefaultOptions()
	opts.UserAgent = r.UserAgent
	opts.Headers = map[string]string{"Authorization": "Basic " + basic}

	body := strings.NewReader(url.Values{"grant_type": {"client_credentials"}}.Encode())
	result, err := fetch.Post(ctx, r.AuthURL, "application/x-www-form-urlencoded", body, opts)
	if err != nil {
		return "", fmt.Errorf("reddit auth failed: %w", err)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal([]byte(result.Body), &parsed); err != nil || parsed.AccessToken == "" {
		return "", fmt.Errorf("reddit auth returned no token")
	}
	return parsed.AccessToken, nil
}

func (r *Reddit) fetchSubreddit(ctx context.Context, token, sub string) ([]types.Candidate, error) {
	opts := fetch.DefaultOptions()
	opts.UserAgent = r.UserAgent
	opts.Headers = map[string]string{"Authorization": "Bearer " + token}

	listingURL := fmt.Sprintf("%s/r/%s/hot?limit=%d", r.APIURL, sub, r.Limit)
	result, err := fetch.Get(ctx, listingURL, opts)
	if err != nil {
		return nil, err
	}

	var listing redditListing
	if err := json.Unmarshal([]byte(result.Body), &listing); err != nil {
		return nil, fmt.Errorf("decoding listing: %w", err)
	}

	candidates := make([]types.Candidate, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		candidates = append(candidates, types.Candidate{
			Source: "reddit/r/" + sub,
			Title:  child.Data.Title,
			URL:    child.Data.URL,
			Score:  child.Data.Score,
			Extra:  map[string]any{"comments": child.Data.NumComments},
		})
	}
	return candidates, nil
}
