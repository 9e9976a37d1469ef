package notifier

import (
	"log/slog"

	"github.com/jobscout/jobscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new job matches to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with company, title, location, URL, and scores.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(jobs []model.JobRecord) error {
	for _, j := range jobs {
		args := []any{
			"company", j.Company,
			"title", j.Title,
			"location", j.Location,
			"url", j.URL,
			"source", j.Source,
		}
		if j.Annotation != nil {
			args = append(args,
				"overall_score", j.Annotation.OverallScore,
				"interview_probability", j.Annotation.InterviewProbability,
				"summary", j.Annotation.Summary,
			)
		} else if j.InitialMatchScore > 0 {
			args = append(args, "initial_match_score", j.InitialMatchScore)
		}
		n.logger.Info("new job match", args...)
	}
	return nil
}
