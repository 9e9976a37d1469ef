package store

import "github.com/jobscout/jobscout/internal/model"

// NopStore is a no-op store used in dry-run mode. It never contains anything
// and never persists, so every job appears new on each run.
type NopStore struct{}

var _ model.MatchStore = (*NopStore)(nil)

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Load() (map[string]model.JobRecord, error) {
	return map[string]model.JobRecord{}, nil
}
func (s *NopStore) Contains(url string) (bool, error) { return false, nil }
func (s *NopStore) Record(job model.JobRecord) error  { return nil }
func (s *NopStore) Persist() error                    { return nil }
func (s *NopStore) Close() error                      { return nil }
