package store

import (
	"context"
	"time"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/logger"
)

// AddLink creates an active link and appends it to the collection.
func (s *Store) AddLink(ctx context.Context, in domain.LinkInput) (domain.Link, error) {
	var created domain.Link
	err := s.mutation(func() error {
		if err := s.checkFolderRef(in.FolderID); err != nil {
			return err
		}
		link, err := domain.NewLink(in, s.now())
		if err != nil {
			return err
		}

		next := append(s.linksCopy(), link)
		if err := s.commitLinks(ctx, next); err != nil {
			return err
		}
		created = link.Clone()
		return nil
	})
	if err != nil {
		return domain.Link{}, err
	}

	s.log.Debug("Link added", logger.String("id", created.ID), logger.String("platform", string(created.Platform)))
	return created, nil
}

// UpdateLink merges patch into the link. An unknown id is a no-op.
func (s *Store) UpdateLink(ctx context.Context, id string, patch domain.LinkPatch) error {
	_, err := s.PatchLink(ctx, id, patch)
	return err
}

// PatchLink is UpdateLink reporting whether a link was written.
func (s *Store) PatchLink(ctx context.Context, id string, patch domain.LinkPatch) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}
	return s.editLink(ctx, id, func(l *domain.Link, _ time.Time) (bool, error) {
		if patch.FolderID.Set && !domain.SameRef(l.FolderID, patch.FolderID.ID) {
			if err := s.checkFolderRef(patch.FolderID.ID); err != nil {
				return false, err
			}
		}
		patch.Apply(l)
		return true, nil
	})
}

// DeleteLink moves the link to the trash. Trashing a trashed link keeps the
// original deletion time.
func (s *Store) DeleteLink(ctx context.Context, id string) error {
	_, err := s.TrashLink(ctx, id)
	return err
}

// TrashLink is DeleteLink reporting whether the link moved to the trash.
// It is false for an unknown or already trashed link.
func (s *Store) TrashLink(ctx context.Context, id string) (bool, error) {
	return s.editLink(ctx, id, func(l *domain.Link, now time.Time) (bool, error) {
		if l.InTrash() {
			return false, nil
		}
		l.State = domain.Trashed(now)
		return true, nil
	})
}

// RestoreLink takes the link out of the trash.
func (s *Store) RestoreLink(ctx context.Context, id string) error {
	_, err := s.editLink(ctx, id, func(l *domain.Link, _ time.Time) (bool, error) {
		if !l.InTrash() {
			return false, nil
		}
		l.State = domain.Active()
		return true, nil
	})
	return err
}

// ToggleFavorite flips the favorite flag.
func (s *Store) ToggleFavorite(ctx context.Context, id string) error {
	_, err := s.editLink(ctx, id, func(l *domain.Link, _ time.Time) (bool, error) {
		l.IsFavorite = !l.IsFavorite
		return true, nil
	})
	return err
}

// PermanentlyDeleteLink removes the link whatever its state. This cannot be undone.
func (s *Store) PermanentlyDeleteLink(ctx context.Context, id string) error {
	return s.mutation(func() error {
		i := indexOfLink(s.links, id)
		if i < 0 {
			return nil
		}
		next := make([]domain.Link, 0, len(s.links)-1)
		next = append(next, s.links[:i]...)
		next = append(next, s.links[i+1:]...)
		return s.commitLinks(ctx, next)
	})
}

// EmptyTrash permanently deletes every trashed link and returns how many.
func (s *Store) EmptyTrash(ctx context.Context) (int, error) {
	return s.purge(ctx, func(domain.Link) bool { return true })
}

// PurgeTrash permanently deletes links trashed at or before cutoff.
func (s *Store) PurgeTrash(ctx context.Context, cutoff time.Time) (int, error) {
	return s.purge(ctx, func(l domain.Link) bool {
		at, _ := l.State.TrashedAt()
		return !at.After(cutoff)
	})
}

func (s *Store) purge(ctx context.Context, match func(domain.Link) bool) (int, error) {
	removed := 0
	err := s.mutation(func() error {
		next := make([]domain.Link, 0, len(s.links))
		for _, l := range s.links {
			if l.InTrash() && match(l) {
				continue
			}
			next = append(next, l)
		}
		if len(next) == len(s.links) {
			return nil
		}
		if err := s.commitLinks(ctx, next); err != nil {
			return err
		}
		removed = len(s.links) - len(next)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("Trash purged", logger.Int("removed", removed))
	}
	return removed, nil
}

// editLink applies fn to a copy of the link and commits it when fn reports a
// change. fn and UpdatedAt share one clock reading. It reports whether the
// link was written.
func (s *Store) editLink(ctx context.Context, id string, fn func(*domain.Link, time.Time) (bool, error)) (bool, error) {
	written := false
	err := s.mutation(func() error {
		i := indexOfLink(s.links, id)
		if i < 0 {
			return nil
		}

		now := s.now()
		next := s.linksCopy()
		changed, err := fn(&next[i], now)
		if err != nil || !changed {
			return err
		}
		next[i].UpdatedAt = domain.Touch(next[i].UpdatedAt, next[i].CreatedAt, now)
		if err := s.commitLinks(ctx, next); err != nil {
			return err
		}
		written = true
		return nil
	})
	return written, err
}

// checkFolderRef rejects a new reference to a folder that does not exist.
// Caller holds writeMu.
func (s *Store) checkFolderRef(folderID *string) error {
	if folderID == nil || indexOfFolder(s.folders, *folderID) >= 0 {
		return nil
	}
	return domain.ErrUnknownFolder
}
