package store

import (
	"context"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/hierarchy"
	"github.com/Samyk00/LinkVault/internal/logger"
)

// AddFolder creates a user folder. The nesting depth and the parent's
// fan-out are checked before anything is written.
func (s *Store) AddFolder(ctx context.Context, in domain.FolderInput) (domain.Folder, error) {
	var created domain.Folder
	err := s.mutation(func() error {
		folder, err := domain.NewFolder(in, s.now())
		if err != nil {
			return err
		}
		if err := hierarchy.ValidatePlacement("", folder.ParentID, s.folders, s.maxSubFolders); err != nil {
			return err
		}

		if err := s.commitFolders(ctx, append(s.foldersCopy(), folder)); err != nil {
			return err
		}
		created = folder.Clone()
		return nil
	})
	if err != nil {
		return domain.Folder{}, err
	}

	s.log.Debug("Folder added", logger.String("id", created.ID), logger.String("name", created.Name))
	return created, nil
}

// UpdateFolder merges patch into the folder. An unknown id is a no-op.
// Moving a folder re-checks depth and fan-out.
func (s *Store) UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) error {
	if patch.Name != nil {
		name, err := domain.NormalizeFolderName(*patch.Name)
		if err != nil {
			return err
		}
		patch.Name = &name
	}

	return s.mutation(func() error {
		i := indexOfFolder(s.folders, id)
		if i < 0 {
			return nil
		}
		if patch.ParentID.Set && !domain.SameRef(s.folders[i].ParentID, patch.ParentID.ID) {
			if err := hierarchy.ValidatePlacement(id, patch.ParentID.ID, s.folders, s.maxSubFolders); err != nil {
				return err
			}
		}

		next := s.foldersCopy()
		patch.Apply(&next[i])
		next[i].UpdatedAt = domain.Touch(next[i].UpdatedAt, next[i].CreatedAt, s.now())
		return s.commitFolders(ctx, next)
	})
}

// DeleteFolder removes the folder only. Links and sub-folders pointing at it
// keep their reference, which then reads as unfiled or root.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	return s.mutation(func() error {
		i := indexOfFolder(s.folders, id)
		if i < 0 {
			return nil
		}
		next := make([]domain.Folder, 0, len(s.folders)-1)
		next = append(next, s.folders[:i]...)
		next = append(next, s.folders[i+1:]...)
		return s.commitFolders(ctx, next)
	})
}
