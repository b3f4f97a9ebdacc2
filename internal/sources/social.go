package sources

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/trendforge/internal/fetch"
	"github.com/jonathan/trendforge/internal/types"
)

// DefaultSocialQuery targets the builder/indie-hacker conversation.
const DefaultSocialQuery = "#buildinpublic OR #indiehacker"

const defaultBrowserTimeout = 45 * time.Second

// Social searches X/Twitter for trending tech and startup content. The
// search page only renders client-side, so the primary path drives a
// headless browser; when no browser is available it falls back to the
// snscrape CLI. Both paths failing yields an error marker.
type Social struct {
	Query          string
	Limit          int
	SearchURL      string // printf template receiving the escaped query
	BrowserTimeout time.Duration
	SkipBrowser    bool
	ScrapeBinary   string
}

// NewSocial creates the adapter with the public search page and scraper CLI.
func NewSocial(query string, limit int) *Social {
	if query == "" {
		query = DefaultSocialQuery
	}
	if limit <= 0 {
		limit = 20
	}
	return &Social{
		Query:          query,
		Limit:          limit,
		SearchURL:      "https://x.com/search?q=%s&f=live",
		BrowserTimeout: defaultBrowserTimeout,
		ScrapeBinary:   "snscrape",
	}
}

// Source implements Adapter.
func (s *Social) Source() string { return "social" }

// Fetch implements Adapter.
func (s *Social) Fetch(ctx context.Context) []types.Candidate {
	if !s.SkipBrowser {
		candidates, err := s.fetchViaBrowser(ctx)
		if err == nil {
			return candidates
		}
		log.Printf("warning: social browser scrape failed, trying %s fallback: %v", s.ScrapeBinary, err)
	}

	candidates, err := s.fetchViaSubprocess(ctx)
	if err != nil {
		return []types.Candidate{types.ErrorCandidate(s.Source(), err.Error())}
	}
	return candidates
}

func (s *Social) fetchViaBrowser(ctx context.Context) ([]types.Candidate, error) {
	searchURL := fmt.Sprintf(s.SearchURL, url.QueryEscape(s.Query))
	html, err := fetch.WithBrowser(ctx, searchURL, s.BrowserTimeout)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered page: %w", err)
	}

	var candidates []types.Candidate
	doc.Find(`article[data-testid="tweet"]`).EachWithBreak(func(_ int, article *goquery.Selection) bool {
		if len(candidates) >= s.Limit {
			return false
		}
		text := strings.TrimSpace(article.Find(`div[data-testid="tweetText"]`).Text())
		if text == "" {
			return true
		}
		if len(text) > 280 {
			text = text[:280]
		}
		link, _ := article.Find(`a[href*="/status/"]`).First().Attr("href")
		if link != "" && !strings.HasPrefix(link, "http") {
			link = "https://x.com" + link
		}
		candidates = append(candidates, types.Candidate{
			Source: s.Source(),
			Title:  text,
			URL:    link,
		})
		return true
	})

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no posts parsed from rendered search page")
	}
	return candidates, nil
}

type snscrapePost struct {
	Content      string `json:"content"`
	URL          string `json:"url"`
	LikeCount    int    `json:"likeCount"`
	RetweetCount int    `json:"retweetCount"`
}

func (s *Social) fetchViaSubprocess(ctx context.Context) ([]types.Candidate, error) {
	cmd := exec.CommandContext(ctx, s.ScrapeBinary,
		"--jsonl", fmt.Sprintf("--max-results=%d", s.Limit),
		"twitter-search", s.Query,
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w", s.ScrapeBinary, err)
	}

	var candidates []types.Candidate
	scanner := bufio.NewScanner(&stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var post snscrapePost
		if err := json.Unmarshal(scanner.Bytes(), &post); err != nil {
			continue
		}
		title := post.Content
		if len(title) > 280 {
			title = title[:280]
		}
		candidates = append(candidates, types.Candidate{
			Source: s.Source(),
			Title:  title,
			URL:    post.URL,
			Score:  post.LikeCount,
			Extra:  map[string]any{"retweets": post.RetweetCount},
		})
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s produced no posts", s.ScrapeBinary)
	}
	return candidates, nil
}
