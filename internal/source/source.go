// Package source implements the job-board sources. Each source turns a
// SearchSpec into normalized JobRecords, skipping malformed listings and
// deduplicating its own output by url before returning.
package source

import (
	"html"
	"regexp"
	"strings"

	"github.com/jobscout/jobscout/internal/model"
)

const defaultSalary = "Not specified"

// combo is one keyword/location pair a source searches for. With no locations
// configured the source degrades to keyword-only search.
type combo struct {
	keyword  string
	location string
}

func searchCombos(spec model.SearchSpec) []combo {
	if len(spec.Locations) == 0 {
		combos := make([]combo, 0, len(spec.Keywords))
		for _, kw := range spec.Keywords {
			combos = append(combos, combo{keyword: kw})
		}
		return combos
	}

	combos := make([]combo, 0, len(spec.Keywords)*len(spec.Locations))
	for _, kw := range spec.Keywords {
		for _, loc := range spec.Locations {
			combos = append(combos, combo{keyword: kw, location: loc})
		}
	}
	return combos
}

// dedupeByURL drops repeated urls keeping discovery order, then caps the
// result at limit (first limit-many unique postings). A limit of 0 or less
// means unlimited.
func dedupeByURL(jobs []model.JobRecord, limit int) []model.JobRecord {
	seen := make(map[string]struct{}, len(jobs))
	unique := make([]model.JobRecord, 0, len(jobs))
	for _, job := range jobs {
		if _, ok := seen[job.URL]; ok {
			continue
		}
		seen[job.URL] = struct{}{}
		unique = append(unique, job)

		if limit > 0 && len(unique) == limit {
			break
		}
	}
	return unique
}

// normalize stamps the source tag and fills defaults shared by every board.
func normalize(job model.JobRecord, sourceName string) model.JobRecord {
	job.Source = sourceName
	if job.Salary == "" {
		job.Salary = defaultSalary
	}
	return job
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text: unescape
// entities, strip tags, collapse whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}
