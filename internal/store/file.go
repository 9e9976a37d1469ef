package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jobscout/jobscout/internal/model"
)

// FileStore keeps previously seen postings in a single JSON file mapping
// url → JobRecord. The file is read wholesale at open and rewritten wholesale
// by Persist; Record only touches memory. Entries are never mutated once
// present and never deleted.
type FileStore struct {
	path string

	mu      sync.Mutex
	records map[string]model.JobRecord
}

var _ model.MatchStore = (*FileStore)(nil)

// OpenFileStore loads the store file at path, treating a missing file as an
// empty store.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		records: make(map[string]model.JobRecord),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", path, err)
	}
	return s, nil
}

// Load returns a copy of the url → record mapping.
func (s *FileStore) Load() (map[string]model.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]model.JobRecord, len(s.records))
	for url, job := range s.records {
		out[url] = job
	}
	return out, nil
}

// Contains reports whether the url has been recorded before.
func (s *FileStore) Contains(url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.records[url]
	return ok, nil
}

// Record registers a job under its url. Re-recording a known url is a no-op:
// the first-sighted copy wins even when the new one differs.
func (s *FileStore) Record(job model.JobRecord) error {
	if job.URL == "" {
		return errors.New("cannot record job without url")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[job.URL]; ok {
		return nil
	}
	s.records[job.URL] = job
	return nil
}

// Persist rewrites the whole store file atomically: the mapping is written to
// a temp file in the same directory and renamed over the target, so a
// subsequent load never observes a partial write.
func (s *FileStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// Close is a no-op for the file-backed store.
func (s *FileStore) Close() error { return nil }
