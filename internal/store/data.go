package store

import (
	"context"
	"fmt"

	"github.com/Samyk00/LinkVault/internal/persistence"
)

// ExportData serializes the dataset as a snapshot document.
func (s *Store) ExportData(ctx context.Context) ([]byte, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.persist.Export(ctx)
}

// ImportData replaces the whole dataset with the snapshot in data, then
// reloads. A rejected snapshot leaves memory and storage untouched.
func (s *Store) ImportData(ctx context.Context, data []byte) (persistence.Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.persist.Import(ctx, data, persistence.CheckFanOut(s.maxSubFolders))
	if err != nil {
		return persistence.Snapshot{}, err
	}
	if err := s.loadLocked(ctx); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("snapshot imported but reload failed: %w", err)
	}
	return snap, nil
}

// Reset wipes storage and reloads, which seeds the platform folders again.
func (s *Store) Reset(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persist.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.selection = make(map[string]struct{})
	s.mu.Unlock()

	return s.loadLocked(ctx)
}

// StorageSize returns the durable footprint in bytes.
func (s *Store) StorageSize(ctx context.Context) (int64, error) {
	return s.persist.StorageSize(ctx)
}

// Quota returns the storage capacity in bytes.
func (s *Store) Quota() int64 {
	return s.persist.Quota()
}
