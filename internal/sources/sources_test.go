package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/trendforge/internal/types"
)

func TestHackerNews_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "front_page", r.URL.Query().Get("tags"))
		assert.Equal(t, "5", r.URL.Query().Get("hitsPerPage"))
		_, _ = w.Write([]byte(`{"hits":[
			{"title":"Show HN: TrendForge","url":"https://example.com","points":120,"num_comments":45},
			{"title":"Go 1.24 released","url":"https://go.dev","points":800,"num_comments":300}
		]}`))
	}))
	defer server.Close()

	hn := NewHackerNews(5)
	hn.BaseURL = server.URL

	candidates := hn.Fetch(context.Background())
	require.Len(t, candidates, 2)
	assert.Equal(t, "hackernews", candidates[0].Source)
	assert.Equal(t, "Show HN: TrendForge", candidates[0].Title)
	assert.Equal(t, 120, candidates[0].Score)
	assert.Equal(t, 45, candidates[0].Extra["comments"])
}

func TestHackerNews_FetchErrorMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	hn := NewHackerNews(5)
	hn.BaseURL = server.URL

	candidates := hn.Fetch(context.Background())
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].IsError())
	assert.Equal(t, "hackernews", candidates[0].Source)
}

func TestGitHubTrending_Fetch(t *testing.T) {
	page := `<html><body>
		<article class="Box-row">
			<h2><a href="/golang/go">golang / go</a></h2>
			<p>The Go programming language</p>
			<a href="/golang/go/stargazers">128,000</a>
		</article>
		<article class="Box-row">
			<h2><a href="/chromedp/chromedp">chromedp / chromedp</a></h2>
			<p>Drive browsers with Go</p>
			<a href="/chromedp/chromedp/stargazers">12,000</a>
		</article>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/go", r.URL.Path)
		assert.Equal(t, "weekly", r.URL.Query().Get("since"))
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	gh := NewGitHubTrending("go", "")
	gh.BaseURL = server.URL

	candidates := gh.Fetch(context.Background())
	require.Len(t, candidates, 2)
	assert.Equal(t, "golang/go", candidates[0].Title)
	assert.Equal(t, "https://github.com/golang/go", candidates[0].URL)
	assert.Equal(t, "The Go programming language", candidates[0].Extra["description"])
	assert.Equal(t, "128,000", candidates[0].Extra["stars"])
}

func TestGitHubTrending_EmptyPageErrorMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body></body></html>"))
	}))
	defer server.Close()

	gh := NewGitHubTrending("", "daily")
	gh.BaseURL = server.URL

	candidates := gh.Fetch(context.Background())
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].IsError())
}

func TestReddit_MissingCredentialsShortCircuits(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer server.Close()

	r := NewReddit("", "", "", "", 10)
	r.AuthURL = server.URL
	r.APIURL = server.URL

	candidates := r.Fetch(context.Background())
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].IsError())
	assert.Contains(t, candidates[0].Err, "REDDIT_CLIENT_ID")
	assert.False(t, called, "no network call should happen without credentials")
}

func TestReddit_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)
		_, _ = w.Write([]byte(`{"access_token":"tok"}`))
	})
	mux.HandleFunc("/r/startups/hot", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"children":[
			{"data":{"title":"Launched my SaaS","url":"https://reddit.com/x","score":90,"num_comments":12}}
		]}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	r := NewReddit("id", "secret", "", "startups", 10)
	r.AuthURL = server.URL + "/api/v1/access_token"
	r.APIURL = server.URL

	candidates := r.Fetch(context.Background())
	require.Len(t, candidates, 1)
	assert.Equal(t, "reddit/r/startups", candidates[0].Source)
	assert.Equal(t, "Launched my SaaS", candidates[0].Title)
	assert.Equal(t, 90, candidates[0].Score)
}

func TestProductHunt_MissingKeyShortCircuits(t *testing.T) {
	ph := NewProductHunt("", 10)
	candidates := ph.Fetch(context.Background())
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].IsError())
	assert.Contains(t, candidates[0].Err, "PRODUCTHUNT_API_KEY")
}

func TestProductHunt_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ph-key", r.Header.Get("Authorization"))

		var payload struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.EqualValues(t, 3, payload.Variables["first"])

		_, _ = w.Write([]byte(`{"data":{"posts":{"edges":[
			{"node":{"name":"LaunchPad","tagline":"Ship faster","url":"https://ph.example","votesCount":321,"commentsCount":12,
				"topics":{"edges":[{"node":{"name":"SaaS"}},{"node":{"name":"AI"}}]}}}
		]}}}`))
	}))
	defer server.Close()

	ph := NewProductHunt("ph-key", 3)
	ph.BaseURL = server.URL

	candidates := ph.Fetch(context.Background())
	require.Len(t, candidates, 1)
	assert.Equal(t, "producthunt", candidates[0].Source)
	assert.Equal(t, "LaunchPad", candidates[0].Title)
	assert.Equal(t, 321, candidates[0].Score)
	assert.Equal(t, []string{"SaaS", "AI"}, candidates[0].Extra["topics"])
}

func TestSocial_BothPathsFailErrorMarker(t *testing.T) {
	s := NewSocial("", 5)
	s.SkipBrowser = true
	s.ScrapeBinary = "definitely-not-a-real-binary"

	candidates := s.Fetch(context.Background())
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].IsError())
	assert.Equal(t, "social", candidates[0].Source)
}

func TestAsTool_MarshalsCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":[{"title":"one","points":1}]}`))
	}))
	defer server.Close()

	hn := NewHackerNews(1)
	hn.BaseURL = server.URL

	tool := AsTool("HackerNews Trends", hn)
	assert.Equal(t, "HackerNews Trends", tool.Name())

	payload, err := tool.Gather(context.Background())
	require.NoError(t, err)

	var candidates []types.Candidate
	require.NoError(t, json.Unmarshal([]byte(payload), &candidates))
	require.Len(t, candidates, 1)
	assert.Equal(t, "one", candidates[0].Title)
}

func TestGather_CombinesPartialFailures(t *testing.T) {
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":[{"title":"a"},{"title":"b"}]}`))
	}))
	defer okServer.Close()
	downServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer downServer.Close()

	healthy := NewHackerNews(2)
	healthy.BaseURL = okServer.URL
	broken := NewHackerNews(2)
	broken.BaseURL = downServer.URL
	noCreds := NewReddit("", "", "", "", 1)

	all := Gather(context.Background(), []Adapter{healthy, broken, noCreds})
	require.Len(t, all, 4)

	var errors, results int
	for _, c := range all {
		if c.IsError() {
			errors++
		} else {
			results++
		}
	}
	assert.Equal(t, 2, results)
	assert.Equal(t, 2, errors)
}
