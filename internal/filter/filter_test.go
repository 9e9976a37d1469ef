package filter

import (
	"testing"

	"github.com/jobscout/jobscout/internal/model"
)

func job(title, desc string) model.JobRecord {
	return model.JobRecord{Title: title, Description: desc, URL: "https://example.com/" + title}
}

func TestKeywordFilter_Apply(t *testing.T) {
	tests := []struct {
		name      string
		interests []string
		skills    []string
		job       model.JobRecord
		wantPass  bool
		wantScore int
	}{
		{
			name:      "interest in title passes",
			interests: []string{"climate"},
			job:       job("Climate Data Scientist", "modelling emissions"),
			wantPass:  true,
			wantScore: 2,
		},
		{
			name:      "interest in description passes",
			interests: []string{"renewable energy"},
			job:       job("Data Scientist", "Work on renewable energy forecasting."),
			wantPass:  true,
			wantScore: 2,
		},
		{
			name:     "single skill alone is below threshold",
			skills:   []string{"python"},
			job:      job("Analyst", "Strong Python required"),
			wantPass: false,
		},
		{
			name:      "two skills accumulate to threshold",
			skills:    []string{"python", "sql"},
			job:       job("Analyst", "Python and SQL daily"),
			wantPass:  true,
			wantScore: 2,
		},
		{
			name:      "interest plus skill accumulates",
			interests: []string{"climate"},
			skills:    []string{"python"},
			job:       job("Climate Analyst", "Python modelling of climate data"),
			wantPass:  true,
			wantScore: 3,
		},
		{
			name:      "case insensitive matching",
			interests: []string{"MACHINE LEARNING"},
			job:       job("machine learning engineer", ""),
			wantPass:  true,
			wantScore: 2,
		},
		{
			name:      "skill only counts in description, not title",
			skills:    []string{"golang"},
			job:       job("Golang Engineer", "backend services"),
			wantPass:  false,
		},
		{
			name:      "zero matches never survive",
			interests: []string{"climate"},
			skills:    []string{"python"},
			job:       job("Barista", "Make coffee"),
			wantPass:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewKeywordFilter(tt.interests, tt.skills)
			got := f.Apply([]model.JobRecord{tt.job})
			if tt.wantPass != (len(got) == 1) {
				t.Fatalf("pass = %v, want %v", len(got) == 1, tt.wantPass)
			}
			if tt.wantPass && got[0].InitialMatchScore != tt.wantScore {
				t.Errorf("InitialMatchScore = %d, want %d", got[0].InitialMatchScore, tt.wantScore)
			}
		})
	}
}

func TestKeywordFilter_Reasons(t *testing.T) {
	f := NewKeywordFilter([]string{"climate"}, []string{"python"})
	got := f.Apply([]model.JobRecord{job("Climate Scientist", "Python for climate models")})
	if len(got) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(got))
	}
	want := []string{"Matches interest: climate", "Matches skill: python"}
	if len(got[0].MatchReasons) != len(want) {
		t.Fatalf("MatchReasons = %v, want %v", got[0].MatchReasons, want)
	}
	for i := range want {
		if got[0].MatchReasons[i] != want[i] {
			t.Errorf("MatchReasons[%d] = %q, want %q", i, got[0].MatchReasons[i], want[i])
		}
	}
}

func TestKeywordFilter_DoesNotMutateInput(t *testing.T) {
	f := NewKeywordFilter([]string{"climate"}, nil)
	in := []model.JobRecord{job("Climate Scientist", "")}
	f.Apply(in)
	if in[0].InitialMatchScore != 0 || in[0].MatchReasons != nil {
		t.Error("Apply mutated its input slice")
	}
}

func TestKeywordFilter_PreservesOrder(t *testing.T) {
	f := NewKeywordFilter([]string{"climate"}, nil)
	in := []model.JobRecord{
		job("Climate Analyst", ""),
		job("Barista", ""),
		job("Climate Scientist", ""),
	}
	got := f.Apply(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(got))
	}
	if got[0].Title != "Climate Analyst" || got[1].Title != "Climate Scientist" {
		t.Errorf("survivors out of order: %q, %q", got[0].Title, got[1].Title)
	}
}
