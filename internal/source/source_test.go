package source

import (
	"testing"

	"github.com/jobscout/jobscout/internal/model"
)

func TestDedupeByURL(t *testing.T) {
	jobs := []model.JobRecord{
		{Title: "A", URL: "u1"},
		{Title: "B", URL: "u2"},
		{Title: "A again", URL: "u1"},
		{Title: "C", URL: "u3"},
	}

	got := dedupeByURL(jobs, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 unique jobs, got %d", len(got))
	}
	// First occurrence wins, discovery order preserved.
	if got[0].Title != "A" || got[1].Title != "B" || got[2].Title != "C" {
		t.Errorf("unexpected order: %v %v %v", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestDedupeByURL_Limit(t *testing.T) {
	jobs := []model.JobRecord{
		{URL: "u1"}, {URL: "u1"}, {URL: "u2"}, {URL: "u3"}, {URL: "u4"},
	}
	got := dedupeByURL(jobs, 2)
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
	if got[0].URL != "u1" || got[1].URL != "u2" {
		t.Errorf("expected first 2 unique urls, got %v %v", got[0].URL, got[1].URL)
	}
}

func TestSearchCombos(t *testing.T) {
	spec := model.SearchSpec{
		Keywords:  []string{"data scientist", "climate analyst"},
		Locations: []string{"London", "Remote"},
	}
	combos := searchCombos(spec)
	if len(combos) != 4 {
		t.Fatalf("expected 4 combos, got %d", len(combos))
	}
	if combos[0].keyword != "data scientist" || combos[0].location != "London" {
		t.Errorf("unexpected first combo %+v", combos[0])
	}
}

func TestSearchCombos_NoLocationsDegradesToKeywordOnly(t *testing.T) {
	combos := searchCombos(model.SearchSpec{Keywords: []string{"data scientist"}})
	if len(combos) != 1 {
		t.Fatalf("expected 1 combo, got %d", len(combos))
	}
	if combos[0].location != "" {
		t.Errorf("expected empty location, got %q", combos[0].location)
	}
}

func TestNormalize(t *testing.T) {
	job := normalize(model.JobRecord{Title: "A", URL: "u1"}, "linkedin")
	if job.Source != "linkedin" {
		t.Errorf("source = %q", job.Source)
	}
	if job.Salary != "Not specified" {
		t.Errorf("salary default = %q", job.Salary)
	}

	withSalary := normalize(model.JobRecord{Salary: "£50k"}, "linkedin")
	if withSalary.Salary != "£50k" {
		t.Errorf("salary overwritten: %q", withSalary.Salary)
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"&lt;p&gt;Encoded&lt;/p&gt;", "Encoded"},
		{"  lots   of \n whitespace ", "lots of whitespace"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := extractText(tt.in); got != tt.want {
			t.Errorf("extractText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
