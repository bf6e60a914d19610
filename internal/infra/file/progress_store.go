// Package file persists the progress document as a single JSON file,
// written in full on every update.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"signparty-service/internal/domain"
)

// ProgressStore reads and writes one JSON document at a fixed path.
type ProgressStore struct {
	path string
}

func NewProgressStore(path string) *ProgressStore {
	return &ProgressStore{path: path}
}

// Load reads the persisted document. A missing file is a normal first
// run and yields the zero-state aggregate; a corrupt file is an error
// the caller degrades from.
func (s *ProgressStore) Load(_ context.Context) (domain.UserProgress, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewUserProgress(), nil
		}
		return domain.UserProgress{}, fmt.Errorf("read progress: %w", err)
	}
	var progress domain.UserProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return domain.UserProgress{}, fmt.Errorf("unmarshal progress: %w", err)
	}
	return progress, nil
}

// Save writes the full snapshot through a temp file and rename so a
// crash mid-write never leaves a truncated document behind.
func (s *ProgressStore) Save(_ context.Context, progress domain.UserProgress) error {
	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "progress-*.json")
	if err != nil {
		return fmt.Errorf("create temp progress file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close progress file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}
