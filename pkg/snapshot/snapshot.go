// Package snapshot persists the enriched gig list as a single JSON file.
// The file is the only artifact shared with the web view and the image
// renderer, so writes must never expose a partially written state.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dbell559/gigsinbrighton/pkg/domain"
)

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Write serializes the gig list to a temporary file in the snapshot's
// directory and renames it into place, so readers observe either the
// previous complete snapshot or the new one.
func (s *Store) Write(gigs []domain.Gig) error {
	data, err := json.Marshal(gigs)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Read returns the published gig list. A missing or unreadable snapshot
// is "no data" for consumers, so it returns an empty list and the error
// for the caller to log.
func (s *Store) Read() ([]domain.Gig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []domain.Gig{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var gigs []domain.Gig
	if err := json.Unmarshal(data, &gigs); err != nil {
		return []domain.Gig{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if gigs == nil {
		gigs = []domain.Gig{}
	}
	return gigs, nil
}
