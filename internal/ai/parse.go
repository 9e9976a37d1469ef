package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jobscout/jobscout/internal/model"
)

const jsonFence = "```json"
const genericFence = "```"

// extractPayload pulls the JSON-bearing substring out of a free-text model
// response. A fence labeled json wins; otherwise the first generic fence;
// otherwise the whole trimmed response.
func extractPayload(raw string) string {
	s := strings.TrimSpace(raw)

	if i := strings.Index(s, jsonFence); i >= 0 {
		return cutAtFence(s[i+len(jsonFence):])
	}
	if i := strings.Index(s, genericFence); i >= 0 {
		return cutAtFence(s[i+len(genericFence):])
	}
	return s
}

// cutAtFence returns the content up to the next fence, or everything when the
// model forgot to close the block.
func cutAtFence(s string) string {
	if end := strings.Index(s, genericFence); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// rawAnnotation accepts fractional scores; models occasionally return 7.5.
type rawAnnotation struct {
	ExperienceMatchScore float64  `json:"experience_match_score"`
	InterestMatchScore   float64  `json:"interest_match_score"`
	InterviewProbability float64  `json:"interview_probability"`
	OverallScore         float64  `json:"overall_score"`
	MatchReasons         []string `json:"match_reasons"`
	Summary              string   `json:"summary"`
}

// parseAnnotation turns a backend's free-text response into a MatchAnnotation.
// It never fails outright: when the payload is unextractable or not valid
// JSON, it returns the all-zero sentinel annotation together with the parse
// error for logging.
func parseAnnotation(raw string) (*model.MatchAnnotation, error) {
	payload := extractPayload(raw)

	var ra rawAnnotation
	if err := json.Unmarshal([]byte(payload), &ra); err != nil {
		return model.SentinelAnnotation(), fmt.Errorf("unmarshal annotation JSON: %w", err)
	}

	return &model.MatchAnnotation{
		ExperienceMatchScore: clampScore(ra.ExperienceMatchScore),
		InterestMatchScore:   clampScore(ra.InterestMatchScore),
		InterviewProbability: clampScore(ra.InterviewProbability),
		OverallScore:         clampScore(ra.OverallScore),
		MatchReasons:         ra.MatchReasons,
		Summary:              strings.TrimSpace(ra.Summary),
	}, nil
}

// clampScore truncates to an int and clamps to the 0-10 scale.
func clampScore(v float64) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}
