package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jobscout/jobscout/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	Content     string             `json:"content"`
	UpdatedAt   string             `json:"updated_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Greenhouse pulls a company's board through the public boards API. The API
// has no search endpoint, so spec keywords are matched client-side against
// title and content; locations and structured filters degrade to keyword-only.
type Greenhouse struct {
	boardToken  string
	companyName string
	client      *Client
	baseURL     string
	logger      *slog.Logger
}

var _ model.Source = (*Greenhouse)(nil)

// NewGreenhouse creates a source for one Greenhouse board.
func NewGreenhouse(boardToken, companyName string, client *Client, logger *slog.Logger) *Greenhouse {
	return &Greenhouse{
		boardToken:  boardToken,
		companyName: companyName,
		client:      client,
		baseURL:     greenhouseBaseURL,
		logger:      logger,
	}
}

func (s *Greenhouse) Name() string { return "greenhouse" }

// Search fetches the whole board once and keeps postings matching any spec
// keyword, capped at spec.Limit unique urls.
func (s *Greenhouse) Search(ctx context.Context, spec model.SearchSpec) ([]model.JobRecord, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", s.baseURL, s.boardToken)

	var ghResp greenhouseResponse
	if err := s.client.JSON(ctx, url, &ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", s.boardToken, err)
	}

	jobs := make([]model.JobRecord, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		description := extractText(gj.Content)
		if !matchesAnyKeyword(gj.Title, description, spec.Keywords) {
			continue
		}

		job := model.JobRecord{
			Title:       gj.Title,
			Company:     s.companyName,
			Location:    gj.Location.Name,
			Description: description,
			URL:         gj.AbsoluteURL,
			DatePosted:  gj.UpdatedAt,
		}
		if !job.Admissible() {
			s.logger.Debug("skipping greenhouse listing without title or url", "id", gj.ID)
			continue
		}
		jobs = append(jobs, normalize(job, s.Name()))
	}

	return dedupeByURL(jobs, spec.Limit), nil
}

func matchesAnyKeyword(title, description string, keywords []string) bool {
	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)
	for _, kw := range keywords {
		needle := strings.ToLower(kw)
		if strings.Contains(titleLower, needle) || strings.Contains(descLower, needle) {
			return true
		}
	}
	return false
}
