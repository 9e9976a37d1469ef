package model

import "context"

// JobRecord is the normalized representation of one job posting, shared by
// every source and consumer. The URL is the global unique identifier: two
// records with the same URL are the same posting.
type JobRecord struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Salary      string `json:"salary"`
	DatePosted  string `json:"date_posted"`
	Source      string `json:"source"` // which Source produced it

	// Set by the keyword filter.
	InitialMatchScore int      `json:"initial_match_score,omitempty"`
	MatchReasons      []string `json:"match_reasons,omitempty"`

	// Set by the AI ranker. Annotation is nil when ranking was skipped or the
	// backend call failed; AnalysisError records why.
	Annotation    *MatchAnnotation `json:"annotation,omitempty"`
	AnalysisError string           `json:"analysis_error,omitempty"`
}

// Admissible reports whether the record may enter the pipeline.
// Title and URL are both required; everything else may be empty.
func (j JobRecord) Admissible() bool {
	return j.Title != "" && j.URL != ""
}

// OverallScore returns the AI overall score, or 0 when no annotation is present.
func (j JobRecord) OverallScore() int {
	if j.Annotation == nil {
		return 0
	}
	return j.Annotation.OverallScore
}

// MatchAnnotation holds the structured AI-derived fit scores for one job.
// All scores are integers on a 0-10 scale.
type MatchAnnotation struct {
	ExperienceMatchScore int      `json:"experience_match_score"`
	InterestMatchScore   int      `json:"interest_match_score"`
	InterviewProbability int      `json:"interview_probability"`
	OverallScore         int      `json:"overall_score"`
	MatchReasons         []string `json:"match_reasons"`
	Summary              string   `json:"summary"`
}

// SentinelAnnotation is the fixed all-zero annotation substituted when the
// backend replied but its response could not be parsed. It keeps downstream
// sorting and serialization well-defined without fabricating scores.
func SentinelAnnotation() *MatchAnnotation {
	return &MatchAnnotation{
		MatchReasons: []string{"Error parsing AI response"},
		Summary:      "Error in analysis",
	}
}

// CandidateProfile describes the person jobs are matched against. It is
// serialized wholesale into the AI analysis prompt.
type CandidateProfile struct {
	Name            string   `json:"name" yaml:"name"`
	Summary         string   `json:"summary" yaml:"summary"`
	YearsExperience int      `json:"years_experience" yaml:"years_experience"`
	Education       string   `json:"education" yaml:"education"`
	Skills          []string `json:"skills" yaml:"skills"`
}

// Source retrieves raw postings from one external job board.
// Search must not fail for an individual malformed listing; per-listing parse
// failures are logged and skipped. Output is deduplicated by URL and capped at
// spec.Limit, preferring the first unique postings in discovery order.
type Source interface {
	Name() string
	Search(ctx context.Context, spec SearchSpec) ([]JobRecord, error)
}

// Ranker annotates jobs with AI fit scores and returns them sorted descending
// by overall score. A per-job backend failure never drops the job or aborts
// the batch; the returned error is reserved for context cancellation.
type Ranker interface {
	Rank(ctx context.Context, jobs []JobRecord) ([]JobRecord, error)
}

// MatchStore is the durable URL-keyed registry of previously seen postings.
// Entries are created on first sighting and never mutated or deleted.
type MatchStore interface {
	Load() (map[string]JobRecord, error)
	Contains(url string) (bool, error)
	Record(job JobRecord) error
	Persist() error
	Close() error
}

// Notifier delivers newly discovered matches.
type Notifier interface {
	Notify(jobs []JobRecord) error
}
