package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/hierarchy"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/version"
)

// SnapshotApp tags documents produced by Export.
const SnapshotApp = "linkvault"

// Snapshot is the portable backup document.
type Snapshot struct {
	App        string          `json:"app"`
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Links      []domain.Link   `json:"links"`
	Folders    []domain.Folder `json:"folders"`
	Settings   domain.Settings `json:"settings"`
}

// ReadSnapshot assembles the durable dataset. Missing or corrupt records
// contribute their defaults.
func (s *Service) ReadSnapshot(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{
		App:        SnapshotApp,
		Version:    version.SnapshotVersion,
		ExportedAt: s.now(),
		Links:      []domain.Link{},
		Folders:    []domain.Folder{},
		Settings:   domain.DefaultSettings(),
	}

	if _, err := s.GetItem(ctx, KeyLinks, &snap.Links); err != nil {
		return Snapshot{}, err
	}
	if _, err := s.GetItem(ctx, KeyFolders, &snap.Folders); err != nil {
		return Snapshot{}, err
	}
	if _, err := s.GetItem(ctx, KeySettings, &snap.Settings); err != nil {
		return Snapshot{}, err
	}

	// A stored JSON null decodes into a nil slice.
	if snap.Links == nil {
		snap.Links = []domain.Link{}
	}
	if snap.Folders == nil {
		snap.Folders = []domain.Folder{}
	}
	snap.Settings = snap.Settings.Normalize()
	return snap, nil
}

// Export serializes the durable dataset as an indented snapshot document.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	snap, err := s.ReadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.log.Info("Snapshot exported",
		logger.Int("links", len(snap.Links)),
		logger.Int("folders", len(snap.Folders)),
	)
	return data, nil
}

// SnapshotCheck is an extra rule a decoded snapshot must pass before Import
// writes it. It returns an error wrapping domain.ErrInvalidSnapshot.
type SnapshotCheck func(Snapshot) error

// Import validates data and replaces all three durable records with it in one
// write. An invalid document fails with domain.ErrInvalidSnapshot, a document
// that does not fit fails with domain.ErrQuotaExceeded; in both cases nothing
// stored is modified.
func (s *Service) Import(ctx context.Context, data []byte, checks ...SnapshotCheck) (Snapshot, error) {
	snap, err := DecodeSnapshot(data)
	if err == nil {
		for _, check := range checks {
			if err = check(snap); err != nil {
				break
			}
		}
	}
	if err != nil {
		s.log.Warn("Snapshot rejected", logger.Error(err))
		return Snapshot{}, err
	}

	entries := make(map[string][]byte, 3)
	for key, value := range map[string]any{
		KeyLinks:    snap.Links,
		KeyFolders:  snap.Folders,
		KeySettings: snap.Settings,
	} {
		encoded, err := json.Marshal(value)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		entries[key] = encoded
	}

	if err := s.write(ctx, entries); err != nil {
		return Snapshot{}, err
	}

	s.log.Info("Snapshot imported",
		logger.Int("links", len(snap.Links)),
		logger.Int("folders", len(snap.Folders)),
	)
	return snap, nil
}

// DecodeSnapshot parses and validates a snapshot document without storing it.
// links and folders must be arrays and settings an object; every entity needs
// a unique non-empty id. A folder may only sit under a root folder; a parent
// that is absent from the document reads as deleted and is allowed.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Snapshot{}, fmt.Errorf("%w: not a JSON object: %v", domain.ErrInvalidSnapshot, err)
	}

	for name, open := range map[string]byte{"links": '[', "folders": '[', "settings": '{'} {
		raw, ok := fields[name]
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: missing %q", domain.ErrInvalidSnapshot, name)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != open {
			return Snapshot{}, fmt.Errorf("%w: %q has the wrong type", domain.ErrInvalidSnapshot, name)
		}
	}

	if raw, ok := fields["version"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return Snapshot{}, fmt.Errorf("%w: version is not an integer", domain.ErrInvalidSnapshot)
		}
		if v > version.SnapshotVersion {
			return Snapshot{}, fmt.Errorf("%w: version %d is newer than supported %d",
				domain.ErrInvalidSnapshot, v, version.SnapshotVersion)
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}

	if err := checkIDs("link", len(snap.Links), func(i int) string { return snap.Links[i].ID }); err != nil {
		return Snapshot{}, err
	}
	if err := checkIDs("folder", len(snap.Folders), func(i int) string { return snap.Folders[i].ID }); err != nil {
		return Snapshot{}, err
	}
	if err := checkDepth(snap.Folders); err != nil {
		return Snapshot{}, err
	}

	for i := range snap.Links {
		if !snap.Links[i].Platform.Valid() {
			snap.Links[i].Platform = domain.PlatformOther
		}
	}
	snap.Settings = snap.Settings.Normalize()
	return snap, nil
}

// CheckFanOut rejects a snapshot in which a folder has more than limit direct children.
func CheckFanOut(limit int) SnapshotCheck {
	return func(snap Snapshot) error {
		children := make(map[string]int)
		for _, f := range snap.Folders {
			if f.ParentID == nil {
				continue
			}
			if _, ok := hierarchy.Find(*f.ParentID, snap.Folders); !ok {
				continue
			}
			children[*f.ParentID]++
			if children[*f.ParentID] > limit {
				return fmt.Errorf("%w: folder %q has more than %d sub-folders",
					domain.ErrInvalidSnapshot, *f.ParentID, limit)
			}
		}
		return nil
	}
}

func checkDepth(folders []domain.Folder) error {
	for _, f := range folders {
		if f.ParentID == nil {
			continue
		}
		parent, ok := hierarchy.Find(*f.ParentID, folders)
		if !ok {
			continue
		}
		if parent.ID == f.ID || !hierarchy.IsRoot(parent, folders) {
			return fmt.Errorf("%w: folder %q is nested more than one level deep",
				domain.ErrInvalidSnapshot, f.ID)
		}
	}
	return nil
}

func checkIDs(kind string, n int, id func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			return fmt.Errorf("%w: %s #%d has no id", domain.ErrInvalidSnapshot, kind, i)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("%w: duplicate %s id %q", domain.ErrInvalidSnapshot, kind, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}
