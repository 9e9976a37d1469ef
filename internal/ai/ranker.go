package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/jobscout/jobscout/internal/model"
)

const (
	systemPrompt = "You are a job matching assistant specialized in evaluating job fit for candidates."

	// Description prefix embedded in the prompt; bounds prompt size.
	maxDescriptionChars = 1000

	defaultTemperature = 0.3
	defaultMaxTokens   = 1024
	defaultConcurrency = 4
)

// Ranker implements model.Ranker on top of a swappable Provider. Prompt
// construction, response parsing, and sorting are shared across all backends;
// only the transport differs.
type Ranker struct {
	provider      Provider
	profileJSON   string
	interestsJSON string
	temperature   float64
	maxTokens     int
	concurrency   int
	logger        *slog.Logger
}

var _ model.Ranker = (*Ranker)(nil)

// NewRanker creates a ranker for the given candidate. concurrency bounds the
// number of in-flight backend calls; values below 1 fall back to the default.
func NewRanker(provider Provider, profile model.CandidateProfile, interests []string, concurrency int, logger *slog.Logger) (*Ranker, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate profile: %w", err)
	}
	if interests == nil {
		interests = []string{}
	}
	interestsJSON, err := json.MarshalIndent(interests, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate interests: %w", err)
	}
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}

	return &Ranker{
		provider:      provider,
		profileJSON:   string(profileJSON),
		interestsJSON: string(interestsJSON),
		temperature:   defaultTemperature,
		maxTokens:     defaultMaxTokens,
		concurrency:   concurrency,
		logger:        logger,
	}, nil
}

// Rank scores each job independently and returns all of them sorted descending
// by overall score (stable: ties keep input order). A backend failure for one
// job retains that job with AnalysisError set; an unparseable response yields
// the sentinel annotation. Only context cancellation produces an error.
func (r *Ranker) Rank(ctx context.Context, jobs []model.JobRecord) ([]model.JobRecord, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	ranked := make([]model.JobRecord, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			ranked[i] = r.rankOne(gctx, job)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking cancelled: %w", err)
	}

	// Final order is computed only after every job completes.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore() > ranked[j].OverallScore()
	})

	return ranked, nil
}

func (r *Ranker) rankOne(ctx context.Context, job model.JobRecord) model.JobRecord {
	prompt, err := r.buildPrompt(job)
	if err != nil {
		job.AnalysisError = err.Error()
		return job
	}

	raw, err := r.provider.Complete(ctx, Request{
		System:      systemPrompt,
		Prompt:      prompt,
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		r.logger.Warn("backend call failed, keeping job unscored",
			"title", job.Title,
			"url", job.URL,
			"error", err,
		)
		job.AnalysisError = err.Error()
		return job
	}

	annotation, parseErr := parseAnnotation(raw)
	if parseErr != nil {
		r.logger.Warn("unparseable backend response, substituting sentinel",
			"title", job.Title,
			"url", job.URL,
			"error", parseErr,
		)
	}
	job.Annotation = annotation
	return job
}

// promptData is the template payload for one job analysis prompt.
type promptData struct {
	ProfileJSON   string
	InterestsJSON string
	Title         string
	Company       string
	Description   string
}

func (r *Ranker) buildPrompt(job model.JobRecord) (string, error) {
	var buf bytes.Buffer
	err := JobAnalysisTemplate.Execute(&buf, promptData{
		ProfileJSON:   r.profileJSON,
		InterestsJSON: r.interestsJSON,
		Title:         job.Title,
		Company:       job.Company,
		Description:   truncate(job.Description, maxDescriptionChars),
	})
	if err != nil {
		return "", fmt.Errorf("render analysis prompt: %w", err)
	}
	return buf.String(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so a multi-byte rune is never split.
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
