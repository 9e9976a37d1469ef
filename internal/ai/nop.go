package ai

import (
	"context"

	"github.com/jobscout/jobscout/internal/model"
)

// NopRanker is used when ai.enabled is false. It returns the jobs unchanged
// with no backend calls; everything ranks equal.
type NopRanker struct{}

var _ model.Ranker = (*NopRanker)(nil)

// NewNopRanker returns a NopRanker.
func NewNopRanker() *NopRanker {
	return &NopRanker{}
}

// Rank returns the jobs unchanged.
func (n *NopRanker) Rank(_ context.Context, jobs []model.JobRecord) ([]model.JobRecord, error) {
	return jobs, nil
}
