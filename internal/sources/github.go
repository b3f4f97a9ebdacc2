package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/trendforge/internal/fetch"
	"github.com/jonathan/trendforge/internal/types"
)

// DefaultGitHubTrendingURL is the GitHub trending page root.
const DefaultGitHubTrendingURL = "https://github.com/trending"

const maxTrendingRepos = 20

// GitHubTrending scrapes the GitHub trending page. The page has no API, so
// this adapter parses the HTML directly.
type GitHubTrending struct {
	BaseURL  string
	Language string
	Since    string // daily | weekly | monthly
}

// NewGitHubTrending creates the adapter against the public trending page.
func NewGitHubTrending(language, since string) *GitHubTrending {
	if since == "" {
		since = "weekly"
	}
	return &GitHubTrending{BaseURL: DefaultGitHubTrendingURL, Language: language, Since: since}
}

// Source implements Adapter.
func (g *GitHubTrending) Source() string { return "github_trending" }

// Fetch implements Adapter.
func (g *GitHubTrending) Fetch(ctx context.Context) []types.Candidate {
	url := g.BaseURL
	if g.Language != "" {
		url += "/" + g.Language
	}
	url += "?since=" + g.Since

	result, err := fetch.Get(ctx, url, nil)
	if err != nil {
		return []types.Candidate{types.ErrorCandidate(g.Source(), err.Error())}
	}

	doc, err := result.Document()
	if err != nil {
		return []types.Candidate{types.ErrorCandidate(g.Source(), err.Error())}
	}

	var candidates []types.Candidate
	doc.Find("article.Box-row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if len(candidates) >= maxTrendingRepos {
			return false
		}
		nameTag := row.Find("h2 a").First()
		if nameTag.Length() == 0 {
			return true
		}
		name := strings.Join(strings.Fields(nameTag.Text()), "")
		href, _ := nameTag.Attr("href")
		desc := strings.TrimSpace(row.Find("p").First().Text())
		stars := strings.TrimSpace(row.Find("a[href$='/stargazers']").First().Text())

		candidates = append(candidates, types.Candidate{
			Source: g.Source(),
			Title:  name,
			URL:    "https://github.com" + href,
			Extra: map[string]any{
				"description": desc,
				"stars":       stars,
			},
		})
		return true
	})

	if len(candidates) == 0 {
		return []types.Candidate{types.ErrorCandidate(g.Source(), fmt.Sprintf("no repositories parsed from %s", url))}
	}
	return candidates
}
