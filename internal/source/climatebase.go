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

const climatebaseBaseURL = "https://climatebase.org"

// Climatebase scrapes climatebase.org job listings. Cards include a partial
// description preview, which feeds the keyword filter directly.
type Climatebase struct {
	client  *Client
	baseURL string
	logger  *slog.Logger
}

var _ model.Source = (*Climatebase)(nil)

// NewClimatebase creates a Climatebase source.
func NewClimatebase(client *Client, logger *slog.Logger) *Climatebase {
	return &Climatebase{
		client:  client,
		baseURL: climatebaseBaseURL,
		logger:  logger,
	}
}

func (s *Climatebase) Name() string { return "climatebase" }

// Search queries each keyword/location combination and returns at most
// spec.Limit unique postings. Structured filters are not supported by the
// board and are ignored.
func (s *Climatebase) Search(ctx context.Context, spec model.SearchSpec) ([]model.JobRecord, error) {
	combos := searchCombos(spec)

	var jobs []model.JobRecord
	failures := 0
	var lastErr error

	for _, c := range combos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.logger.Info("searching climatebase", "keyword", c.keyword, "location", c.location)

		doc, err := s.client.Document(ctx, s.searchURL(c))
		if err != nil {
			s.logger.Warn("climatebase search failed",
				"keyword", c.keyword,
				"location", c.location,
				"error", err,
			)
			failures++
			lastErr = err
			continue
		}

		doc.Find(".job-card").Each(func(_ int, card *goquery.Selection) {
			job, err := s.parseCard(card)
			if err != nil {
				s.logger.Debug("skipping malformed climatebase listing", "error", err)
				return
			}
			jobs = append(jobs, normalize(job, s.Name()))
		})
	}

	if failures == len(combos) && failures > 0 {
		return nil, fmt.Errorf("climatebase: all %d searches failed: %w", failures, lastErr)
	}
	return dedupeByURL(jobs, spec.Limit), nil
}

func (s *Climatebase) searchURL(c combo) string {
	params := url.Values{}
	params.Set("q", c.keyword)
	params.Set("l", c.location)
	params.Set("p", "0")
	params.Set("remote", "false")
	return s.baseURL + "/jobs?" + params.Encode()
}

func (s *Climatebase) parseCard(card *goquery.Selection) (model.JobRecord, error) {
	href, _ := card.Find("a.job-card-link").First().Attr("href")
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") {
		href = s.baseURL + href
	}

	job := model.JobRecord{
		Title:       strings.TrimSpace(card.Find(".job-title").First().Text()),
		Company:     strings.TrimSpace(card.Find(".organization-name").First().Text()),
		Location:    strings.TrimSpace(card.Find(".job-location").First().Text()),
		Description: extractText(card.Find(".job-description-preview").First().Text()),
		URL:         href,
	}
	if !job.Admissible() {
		return model.JobRecord{}, errors.New("card missing title or url")
	}
	return job, nil
}
