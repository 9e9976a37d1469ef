package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jobscout/jobscout/internal/model"
)

// Config is the root configuration for the JobScout agent.
type Config struct {
	PollingInterval time.Duration
	Profile         model.CandidateProfile
	Interests       []string
	Search          model.SearchSpec
	Sources         []SourceConfig
	AI              AIConfig
	Store           StoreConfig
	Notification    NotificationConfig
	RateLimit       RateLimitConfig
	Retry           RetryConfig
}

// SourceConfig describes a single job board to search.
type SourceConfig struct {
	Name        string `yaml:"name"`         // "linkedin", "climatebase", "greenhouse"
	BoardToken  string `yaml:"board_token"`  // greenhouse only
	CompanyName string `yaml:"company_name"` // greenhouse only, defaults to board_token
	Enabled     bool   `yaml:"enabled"`
}

// AIConfig controls the AI ranking layer.
type AIConfig struct {
	Enabled     bool
	Provider    string        // "openai", "groq", or "gemini"
	BaseURL     string        // OpenAI-compatible providers only
	Model       string
	APIKey      string        // expanded from env var by Load
	Timeout     time.Duration // per-request timeout
	Concurrency int           // parallel analysis calls per batch
}

// StoreConfig selects the match store backend.
type StoreConfig struct {
	Type string `yaml:"type"` // "file", "sqlite", or "none"
	Path string `yaml:"path"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// RateLimitConfig controls per-host outbound request pacing.
type RateLimitConfig struct {
	RequestsPerSec float64
	Burst          int
}

// RetryConfig controls how source fetches are retried on transient errors.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultGroqBaseURL   = "https://api.groq.com/openai/v1"
)

// rawConfig is used for YAML unmarshaling (snake_case fields, durations as strings).
type rawConfig struct {
	PollingInterval string                 `yaml:"polling_interval"`
	Profile         model.CandidateProfile `yaml:"profile"`
	Interests       []string               `yaml:"interests"`
	Search          rawSearchConfig        `yaml:"search"`
	Sources         []SourceConfig         `yaml:"sources"`
	AI              rawAIConfig            `yaml:"ai"`
	Store           StoreConfig            `yaml:"store"`
	Notification    NotificationConfig     `yaml:"notification"`
	RateLimit       rawRateLimitConfig     `yaml:"rate_limit"`
	Retry           rawRetryConfig         `yaml:"retry"`
}

type rawSearchConfig struct {
	Keywords        []string `yaml:"keywords"`
	Locations       []string `yaml:"locations"`
	ExperienceLevel string   `yaml:"experience_level"`
	Industry        string   `yaml:"industry"`
	EmploymentType  string   `yaml:"employment_type"`
	Limit           int      `yaml:"limit"`
}

type rawAIConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Provider    string `yaml:"provider"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key"`
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
}

type rawRateLimitConfig struct {
	RequestsPerSec float64 `yaml:"requests_per_sec"`
	Burst          int     `yaml:"burst"`
}

type rawRetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval := 6 * time.Hour // default
	if raw.PollingInterval != "" {
		interval, err = time.ParseDuration(raw.PollingInterval)
		if err != nil {
			return nil, fmt.Errorf("parse polling_interval %q: %w", raw.PollingInterval, err)
		}
	}

	search, err := model.NewSearchSpec(model.SearchSpec{
		Keywords:        raw.Search.Keywords,
		Locations:       raw.Search.Locations,
		ExperienceLevel: raw.Search.ExperienceLevel,
		Industry:        raw.Search.Industry,
		EmploymentType:  raw.Search.EmploymentType,
		Limit:           raw.Search.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	aiTimeout := 30 * time.Second // default
	if raw.AI.Timeout != "" {
		aiTimeout, err = time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
	}

	concurrency := raw.AI.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	provider := raw.AI.Provider
	if provider == "" {
		provider = "openai"
	}
	aiBaseURL := raw.AI.BaseURL
	if aiBaseURL == "" {
		switch provider {
		case "openai":
			aiBaseURL = defaultOpenAIBaseURL
		case "groq":
			aiBaseURL = defaultGroqBaseURL
		}
	}

	rps := raw.RateLimit.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	burst := raw.RateLimit.Burst
	if burst <= 0 {
		burst = 1
	}

	baseDelay := 2 * time.Second // default
	if raw.Retry.BaseDelay != "" {
		baseDelay, err = time.ParseDuration(raw.Retry.BaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse retry.base_delay %q: %w", raw.Retry.BaseDelay, err)
		}
	}
	maxRetries := raw.Retry.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	store := raw.Store
	if store.Type == "" {
		store.Type = "file"
	}
	if store.Type == "file" && store.Path == "" {
		store.Path = "job_matches.json"
	}
	if store.Type == "sqlite" && store.Path == "" {
		store.Path = "job_matches.db"
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}

	cfg := &Config{
		PollingInterval: interval,
		Profile:         raw.Profile,
		Interests:       raw.Interests,
		Search:          search,
		Sources:         raw.Sources,
		AI: AIConfig{
			Enabled:     raw.AI.Enabled,
			Provider:    provider,
			BaseURL:     aiBaseURL,
			Model:       raw.AI.Model,
			APIKey:      raw.AI.APIKey,
			Timeout:     aiTimeout,
			Concurrency: concurrency,
		},
		Store:        store,
		Notification: notification,
		RateLimit: RateLimitConfig{
			RequestsPerSec: rps,
			Burst:          burst,
		},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}

	enabled := 0
	for _, s := range cfg.Sources {
		if !s.Enabled {
			continue
		}
		enabled++
		switch s.Name {
		case "linkedin", "climatebase":
		case "greenhouse":
			if s.BoardToken == "" {
				return fmt.Errorf("sources: greenhouse requires a board_token")
			}
		default:
			return fmt.Errorf("sources: unknown source %q", s.Name)
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	switch cfg.Store.Type {
	case "file", "sqlite", "none":
	default:
		return fmt.Errorf("store.type must be \"file\", \"sqlite\", or \"none\", got %q", cfg.Store.Type)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		const slackPrefix = "https://hooks.slack.com/"
		if len(cfg.Notification.WebhookURL) < len(slackPrefix) ||
			cfg.Notification.WebhookURL[:len(slackPrefix)] != slackPrefix {
			return fmt.Errorf("notification.webhook_url must start with %s", slackPrefix)
		}
	}

	if cfg.AI.Enabled {
		switch cfg.AI.Provider {
		case "openai", "groq", "gemini":
		default:
			return fmt.Errorf("ai.provider must be \"openai\", \"groq\", or \"gemini\", got %q", cfg.AI.Provider)
		}
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.enabled is true")
		}
		if cfg.AI.Provider != "gemini" && cfg.AI.BaseURL == "" {
			return fmt.Errorf("ai.base_url (or a known ai.provider) is required when ai.enabled is true")
		}
		if cfg.AI.Model == "" && cfg.AI.Provider != "gemini" {
			return fmt.Errorf("ai.model is required when ai.enabled is true")
		}
	}

	return nil
}
