package main

import (
	"context"
	"os"

	"github.com/jonathan/trendforge/internal/agent"
	"github.com/jonathan/trendforge/internal/artifacts"
	"github.com/jonathan/trendforge/internal/config"
	"github.com/jonathan/trendforge/internal/llm"
	"github.com/jonathan/trendforge/internal/observability"
	"github.com/jonathan/trendforge/internal/pipeline"
	"github.com/jonathan/trendforge/internal/sources"
)

// newRunner wires the pipeline from environment configuration. The caller
// owns closing the returned client and ledger.
func newRunner(ctx context.Context, cfg *config.Config, led pipeline.Ledger, topic string) (*pipeline.Runner, *llm.GeminiClient, error) {
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, err
	}

	runner := pipeline.NewRunner(pipeline.Runner{
		Executor:   agent.NewLLMExecutor(client),
		Tools:      discoveryTools(cfg, topic),
		Artifacts:  artifacts.NewStore(cfg.StorageRoot),
		Ledger:     led,
		Prompter:   pipeline.NewStdinPrompter(os.Stdin, os.Stdout),
		Printer:    observability.NewPrinter(os.Stdout),
		Out:        os.Stdout,
		OutputRoot: cfg.OutputRoot,
		Verbose:    cfg.Verbose,
	})
	return runner, client, nil
}

// discoveryTools builds the five source adapters the scout draws on.
// Adapters missing credentials stay in the list; they degrade to error
// markers on their own.
func discoveryTools(cfg *config.Config, topic string) []agent.Tool {
	socialQuery := cfg.SocialQuery
	if socialQuery == "" && topic != "" {
		socialQuery = topic
	}

	return []agent.Tool{
		sources.AsTool("hackernews", sources.NewHackerNews(20)),
		sources.AsTool("github_trending", sources.NewGitHubTrending("", "daily")),
		sources.AsTool("reddit", sources.NewReddit(
			cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent, cfg.Subreddits, 10)),
		sources.AsTool("producthunt", sources.NewProductHunt(cfg.ProductHuntAPIKey, 10)),
		sources.AsTool("social", sources.NewSocial(socialQuery, 15)),
	}
}
