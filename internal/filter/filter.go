package filter

import (
	"fmt"
	"strings"

	"github.com/jobscout/jobscout/internal/model"
)

// surviveThreshold is the minimum accumulated score for a job to pass the
// keyword stage and reach the costlier AI ranking step.
const surviveThreshold = 2

// KeywordFilter is the cheap local pre-filter scoring jobs against the
// candidate's interests and skills. Matching is case-insensitive substring:
// +2 per interest found in the title or description, +1 per skill found in
// the description. Pure and deterministic; no network calls.
type KeywordFilter struct {
	interests []string
	skills    []string
}

// NewKeywordFilter builds a filter from the candidate's interests and the
// skills listed on their profile.
func NewKeywordFilter(interests, skills []string) *KeywordFilter {
	return &KeywordFilter{
		interests: interests,
		skills:    skills,
	}
}

// Apply returns the subset of jobs scoring at or above the survival threshold,
// each annotated with its initial match score and the reasons it matched.
// Input order is preserved; the input slice is not modified.
func (f *KeywordFilter) Apply(jobs []model.JobRecord) []model.JobRecord {
	var matches []model.JobRecord
	for _, job := range jobs {
		score, reasons := f.score(job)
		if score < surviveThreshold {
			continue
		}
		job.InitialMatchScore = score
		job.MatchReasons = reasons
		matches = append(matches, job)
	}
	return matches
}

func (f *KeywordFilter) score(job model.JobRecord) (int, []string) {
	titleLower := strings.ToLower(job.Title)
	descLower := strings.ToLower(job.Description)

	score := 0
	var reasons []string

	for _, interest := range f.interests {
		needle := strings.ToLower(interest)
		if needle == "" {
			continue
		}
		if strings.Contains(titleLower, needle) || strings.Contains(descLower, needle) {
			score += 2
			reasons = append(reasons, fmt.Sprintf("Matches interest: %s", interest))
		}
	}

	for _, skill := range f.skills {
		needle := strings.ToLower(skill)
		if needle == "" {
			continue
		}
		if strings.Contains(descLower, needle) {
			score++
			reasons = append(reasons, fmt.Sprintf("Matches skill: %s", skill))
		}
	}

	return score, reasons
}
