package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// SlackNotifier sends job alerts to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each job to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify sends each job as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(jobs []model.JobRecord) error {
	if len(jobs) == 0 {
		return nil
	}

	failures := 0
	for i, j := range jobs {
		if i > 0 {
			time.Sleep(500 * time.Millisecond)
		}

		if err := s.sendMessage(j); err != nil {
			s.logger.Error("slack notification failed", "company", j.Company, "title", j.Title, "error", err)
			failures++
		}
	}

	sent := len(jobs) - failures
	if failures == len(jobs) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", sent, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(j model.JobRecord) error {
	payload := buildPayload(j)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		secs, _ := strconv.Atoi(retryAfter)
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		s.logger.Info("slack message sent", "company", j.Company, "title", j.Title, "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack message sent", "company", j.Company, "title", j.Title)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a dummy job notification to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	testJob := model.JobRecord{
		Title:      "Test Notification — Integration Verified",
		Company:    "JobScout Test",
		Location:   "Everywhere",
		URL:        "https://example.com/jobs",
		Salary:     "Not specified",
		DatePosted: time.Now().Format(time.RFC1123),
		Source:     "test",
		Annotation: &model.MatchAnnotation{
			OverallScore:         10,
			InterviewProbability: 10,
			Summary:              "If you can read this, the webhook works.",
		},
	}
	return n.Notify([]model.JobRecord{testJob})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildPayload(j model.JobRecord) slackPayload {
	posted := j.DatePosted
	if posted == "" {
		posted = "Just detected"
	}

	company := capitalize(j.Company)
	source := capitalize(j.Source)

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🚀 " + company + ": " + j.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Company:*\n" + company},
				{Type: "mrkdwn", Text: "*Location:*\n" + j.Location},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Posted:*\n" + posted},
				{Type: "mrkdwn", Text: "*Source:*\n" + source},
			},
		},
	}

	if a := j.Annotation; a != nil {
		scoreText := fmt.Sprintf("*Overall:* %d/10   *Experience:* %d/10   *Interest:* %d/10   *Interview:* %d/10",
			a.OverallScore,
			a.ExperienceMatchScore,
			a.InterestMatchScore,
			a.InterviewProbability,
		)
		if a.Summary != "" {
			scoreText += "\n" + a.Summary
		}
		for _, reason := range a.MatchReasons {
			scoreText += "\n• " + reason
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: scoreText},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Apply Now"},
					URL:   j.URL,
					Style: "primary",
				},
			},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}
