// Package storage keeps the stamp run log in the state directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// maxRuns bounds the log; older entries are dropped first.
const maxRuns = 100

// RunRecord is one completed stamp run.
type RunRecord struct {
	Root      string    `json:"root"`
	Scanned   int       `json:"scanned"`
	Updated   []string  `json:"updated"`
	DryRun    bool      `json:"dry_run,omitempty"`
	Trigger   string    `json:"trigger"` // stamp, watch, mcp
	StartedAt time.Time `json:"started_at"`
}

// RunStore implements the run log using a local JSON file.
type RunStore struct {
	mu  sync.Mutex
	dir string
}

// NewRunStore creates a run store at the given directory.
func NewRunStore(dir string) *RunStore {
	return &RunStore{dir: dir}
}

func (s *RunStore) filePath() string {
	return filepath.Join(s.dir, "runs.json")
}

// Append adds a run to the log.
func (s *RunStore) Append(rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.readUnsafe()
	if err != nil {
		runs = nil // Start fresh if file is corrupted
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	runs = append(runs, rec)
	if len(runs) > maxRuns {
		runs = runs[len(runs)-maxRuns:]
	}
	return s.writeUnsafe(runs)
}

// Last returns the most recent non-dry run for root, or nil.
func (s *RunStore) Last(root string) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.readUnsafe()
	if err != nil {
		return nil, err
	}
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].Root == root && !runs[i].DryRun {
			rec := runs[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// List returns every logged run for root, oldest first.
func (s *RunStore) List(root string) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.readUnsafe()
	if err != nil {
		return nil, err
	}
	var out []RunRecord
	for _, r := range runs {
		if r.Root == root {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RunStore) readUnsafe() ([]RunRecord, error) {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}

	var runs []RunRecord
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to parse run log: %w", err)
	}
	return runs, nil
}

func (s *RunStore) writeUnsafe(runs []RunRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run log: %w", err)
	}

	return os.WriteFile(s.filePath(), data, 0o644)
}
