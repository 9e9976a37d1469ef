package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobscout/jobscout/internal/model"
)

const linkedinBaseURL = "https://www.linkedin.com/jobs/search/"

// LinkedIn scrapes LinkedIn's public jobs search page. Search descriptions are
// not on the results page, so records carry an empty description and rely on
// title matching downstream.
type LinkedIn struct {
	client  *Client
	baseURL string
	logger  *slog.Logger
}

var _ model.Source = (*LinkedIn)(nil)

// NewLinkedIn creates a LinkedIn source.
func NewLinkedIn(client *Client, logger *slog.Logger) *LinkedIn {
	return &LinkedIn{
		client:  client,
		baseURL: linkedinBaseURL,
		logger:  logger,
	}
}

func (s *LinkedIn) Name() string { return "linkedin" }

// Search runs every keyword/location combination, skipping failed fetches and
// malformed cards, and returns at most spec.Limit unique postings in
// discovery order. It fails only when every combination failed.
func (s *LinkedIn) Search(ctx context.Context, spec model.SearchSpec) ([]model.JobRecord, error) {
	combos := searchCombos(spec)

	var jobs []model.JobRecord
	failures := 0
	var lastErr error

	for _, c := range combos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.logger.Info("searching linkedin", "keyword", c.keyword, "location", c.location)

		doc, err := s.client.Document(ctx, s.searchURL(c, spec))
		if err != nil {
			s.logger.Warn("linkedin search failed",
				"keyword", c.keyword,
				"location", c.location,
				"error", err,
			)
			failures++
			lastErr = err
			continue
		}

		doc.Find(".job-search-card").Each(func(_ int, card *goquery.Selection) {
			job, err := parseLinkedInCard(card)
			if err != nil {
				s.logger.Debug("skipping malformed linkedin listing", "error", err)
				return
			}
			jobs = append(jobs, normalize(job, s.Name()))
		})
	}

	if failures == len(combos) && failures > 0 {
		return nil, fmt.Errorf("linkedin: all %d searches failed: %w", failures, lastErr)
	}
	return dedupeByURL(jobs, spec.Limit), nil
}

func (s *LinkedIn) searchURL(c combo, spec model.SearchSpec) string {
	params := url.Values{}
	params.Set("keywords", c.keyword)
	if c.location != "" {
		params.Set("location", c.location)
	}
	if spec.ExperienceLevel != "" {
		params.Set("f_E", spec.ExperienceLevel)
	}
	if spec.Industry != "" {
		params.Set("f_I", spec.Industry)
	}
	if spec.EmploymentType != "" {
		params.Set("f_JT", spec.EmploymentType)
	}
	return s.baseURL + "?" + params.Encode()
}

func parseLinkedInCard(card *goquery.Selection) (model.JobRecord, error) {
	title := strings.TrimSpace(card.Find(".base-search-card__title").First().Text())
	href, _ := card.Find("a.base-card__full-link").First().Attr("href")
	href = strings.TrimSpace(href)

	job := model.JobRecord{
		Title:    title,
		Company:  strings.TrimSpace(card.Find(".base-search-card__subtitle").First().Text()),
		Location: strings.TrimSpace(card.Find(".job-search-card__location").First().Text()),
		URL:      href,
		// Description lives on the job page; the filter works off the title.
	}
	if !job.Admissible() {
		return model.JobRecord{}, errors.New("card missing title or url")
	}
	return job, nil
}
