package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/agent"
	"github.com/jobscout/jobscout/internal/ai"
	"github.com/jobscout/jobscout/internal/config"
	"github.com/jobscout/jobscout/internal/filter"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/notifier"
	"github.com/jobscout/jobscout/internal/ratelimit"
	"github.com/jobscout/jobscout/internal/retry"
	"github.com/jobscout/jobscout/internal/source"
	"github.com/jobscout/jobscout/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Job search agent — aggregate, filter, rank",
	Long:  "JobScout searches job boards, filters postings against your profile, ranks them with AI, and reports only what's new.",
	// Default to `start` so that `jobscout` with no args runs the daemon.
	// This preserves compatibility with systemd unit files that invoke the binary directly.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildSources creates one Source per enabled board. All sources share one
// HTTP client and one per-host rate limiter, and each is wrapped with retries.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.Source {
	limiter := ratelimit.NewHostLimiter(cfg.RateLimit.RequestsPerSec, cfg.RateLimit.Burst)
	client := source.NewClient(httpClient, limiter)

	var sources []model.Source
	for _, sc := range cfg.Sources {
		if !sc.Enabled {
			continue
		}

		var src model.Source
		switch sc.Name {
		case "linkedin":
			src = source.NewLinkedIn(client, logger)
		case "climatebase":
			src = source.NewClimatebase(client, logger)
		case "greenhouse":
			company := sc.CompanyName
			if company == "" {
				company = sc.BoardToken
			}
			src = source.NewGreenhouse(sc.BoardToken, company, client, logger)
		default:
			logger.Warn("unsupported source, skipping", "source", sc.Name)
			continue
		}

		src = retry.Wrap(src, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
		sources = append(sources, src)
		logger.Info("registered source", "source", sc.Name)
	}
	return sources
}

func buildStore(cfg *config.Config, logger *slog.Logger) (model.MatchStore, error) {
	switch cfg.Store.Type {
	case "sqlite":
		logger.Info("using sqlite store", "path", cfg.Store.Path)
		return store.OpenSQLiteStore(cfg.Store.Path)
	case "none":
		logger.Info("store disabled, nothing will be remembered")
		return store.NewNopStore(), nil
	default:
		logger.Info("using file store", "path", cfg.Store.Path)
		return store.OpenFileStore(cfg.Store.Path)
	}
}

func buildRanker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (model.Ranker, error) {
	if !cfg.AI.Enabled {
		logger.Info("AI ranking disabled, jobs pass through unscored")
		return ai.NewNopRanker(), nil
	}

	var provider ai.Provider
	switch cfg.AI.Provider {
	case "gemini":
		p, err := ai.NewGeminiProvider(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini provider: %w", err)
		}
		provider = p
	default: // openai, groq
		httpClient := &http.Client{Timeout: cfg.AI.Timeout}
		provider = ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	}
	logger.Info("AI ranking enabled", "provider", cfg.AI.Provider, "model", cfg.AI.Model)

	return ai.NewRanker(provider, cfg.Profile, cfg.Interests, cfg.AI.Concurrency, logger)
}

// buildAgent wires the full pipeline from config. The returned store must be
// closed by the caller.
func buildAgent(ctx context.Context, cfg *config.Config, matchStore model.MatchStore, logger *slog.Logger) (*agent.Agent, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	sources := buildSources(cfg, httpClient, logger)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources to search")
	}

	ranker, err := buildRanker(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	keywordFilter := filter.NewKeywordFilter(cfg.Interests, cfg.Profile.Skills)
	n := setupNotifier(cfg, httpClient, logger)

	return agent.New(sources, cfg.Search, keywordFilter, ranker, matchStore, n, logger), nil
}
