package model

import "errors"

// DefaultSearchLimit caps a source's output when the spec does not say otherwise.
const DefaultSearchLimit = 10

// SearchSpec holds the per-source search parameters. Construct it through
// NewSearchSpec and treat it as read-only afterwards.
type SearchSpec struct {
	Keywords []string
	// Optional. Sources without location support degrade to keyword-only search.
	Locations []string
	// Optional structured filters; free-form strings interpreted per source.
	ExperienceLevel string
	Industry        string
	EmploymentType  string
	// Maximum unique postings a source may return.
	Limit int
}

// NewSearchSpec validates the spec and applies defaults. Missing keywords are
// a construction-time failure, not a run-time one.
func NewSearchSpec(spec SearchSpec) (SearchSpec, error) {
	keywords := make([]string, 0, len(spec.Keywords))
	for _, kw := range spec.Keywords {
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return SearchSpec{}, errors.New("search spec requires at least one keyword")
	}
	spec.Keywords = keywords

	if spec.Limit <= 0 {
		spec.Limit = DefaultSearchLimit
	}
	return spec, nil
}
