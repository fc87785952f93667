package store

import (
	"context"

	"github.com/Samyk00/LinkVault/internal/domain"
)

// Settings returns the preferences record.
func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings shallow-merges patch into the preferences record.
func (s *Store) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.mutation(func() error {
		next := s.settings
		patch.Apply(&next)
		if next == s.settings {
			return nil
		}
		return s.commitSettings(ctx, next)
	})
}
