// Package store is the single in-memory source of truth for links, folders,
// settings and selection. Every mutation builds the next collection, writes
// it through the persistence service and only then swaps it in, so memory
// never runs ahead of durable state.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Samyk00/LinkVault/internal/catalog"
	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/persistence"
)

// Options configures a Store.
type Options struct {
	// MaxSubFolders is the fan-out limit per parent folder.
	MaxSubFolders int
	// Catalog describes the platform folders seeded into an empty store.
	Catalog catalog.Catalog
	Logger  logger.Logger
	Now     func() time.Time
}

// Store holds one view of the dataset.
type Store struct {
	// writeMu serializes mutations and reloads end to end, including the
	// durable write. mu guards the fields below for the final swap and reads.
	writeMu sync.Mutex
	mu      sync.RWMutex

	persist       *persistence.Service
	catalog       catalog.Catalog
	log           logger.Logger
	now           func() time.Time
	maxSubFolders int

	links     []domain.Link
	folders   []domain.Folder
	settings  domain.Settings
	selection map[string]struct{}
	hydrated  bool
	lastLoad  time.Time
}

// New creates an empty, not yet hydrated store. Call LoadFromStorage before use.
func New(persist *persistence.Service, opts Options) *Store {
	if opts.MaxSubFolders <= 0 {
		opts.MaxSubFolders = domain.DefaultMaxSubFolders
	}
	if opts.Catalog.Platforms == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	return &Store{
		persist:       persist,
		catalog:       opts.Catalog,
		log:           opts.Logger.With(logger.String("view", persist.Origin())),
		now:           opts.Now,
		maxSubFolders: opts.MaxSubFolders,
		links:         []domain.Link{},
		folders:       []domain.Folder{},
		settings:      domain.DefaultSettings(),
		selection:     make(map[string]struct{}),
	}
}

// ViewID identifies this view in change notifications.
func (s *Store) ViewID() string { return s.persist.Origin() }

// MaxSubFolders is the configured fan-out limit.
func (s *Store) MaxSubFolders() int { return s.maxSubFolders }

// Hydrated reports whether the first load completed.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// LastLoad returns when the store was last loaded from storage.
func (s *Store) LastLoad() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLoad
}

// LoadFromStorage replaces memory with the durable dataset. When no folders
// are stored, one root folder per platform is created and persisted first.
// On a backend failure the current state is kept and the error returned.
func (s *Store) LoadFromStorage(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	start := time.Now()

	var links []domain.Link
	found, err := s.persist.GetItem(ctx, persistence.KeyLinks, &links)
	if err != nil {
		return fmt.Errorf("failed to load links: %w", err)
	}
	if !found || links == nil {
		links = []domain.Link{}
	}
	var folders []domain.Folder
	found, err = s.persist.GetItem(ctx, persistence.KeyFolders, &folders)
	if err != nil {
		return fmt.Errorf("failed to load folders: %w", err)
	}
	if !found {
		folders = nil
	}
	var settings domain.Settings
	found, err = s.persist.GetItem(ctx, persistence.KeySettings, &settings)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !found {
		settings = domain.DefaultSettings()
	}

	if len(folders) == 0 {
		seeded, err := s.catalog.Folders(s.now())
		if err != nil {
			return fmt.Errorf("failed to build platform folders: %w", err)
		}
		if err := s.persist.SetItem(ctx, persistence.KeyFolders, seeded); err != nil {
			return fmt.Errorf("failed to seed platform folders: %w", err)
		}
		s.log.Info("Platform folders created", logger.Int("count", len(seeded)))
		folders = seeded
	}

	s.mu.Lock()
	s.links = links
	s.folders = folders
	s.settings = settings.Normalize()
	s.pruneSelectionLocked()
	s.hydrated = true
	s.lastLoad = s.now()
	s.mu.Unlock()

	s.log.Debug("Store loaded",
		logger.Int("links", len(links)),
		logger.Int("folders", len(folders)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// mutation runs fn with the write lock held once the store is hydrated.
func (s *Store) mutation(fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	hydrated := s.hydrated
	s.mu.RUnlock()
	if !hydrated {
		return domain.ErrNotHydrated
	}
	return fn()
}

// commitLinks persists next and swaps it in. Caller holds writeMu.
func (s *Store) commitLinks(ctx context.Context, next []domain.Link) error {
	if err := s.persist.SetItem(ctx, persistence.KeyLinks, next); err != nil {
		return err
	}
	s.mu.Lock()
	s.links = next
	s.pruneSelectionLocked()
	s.mu.Unlock()
	return nil
}

// commitFolders persists next and swaps it in. Caller holds writeMu.
func (s *Store) commitFolders(ctx context.Context, next []domain.Folder) error {
	if err := s.persist.SetItem(ctx, persistence.KeyFolders, next); err != nil {
		return err
	}
	s.mu.Lock()
	s.folders = next
	s.mu.Unlock()
	return nil
}

func (s *Store) commitSettings(ctx context.Context, next domain.Settings) error {
	if err := s.persist.SetItem(ctx, persistence.KeySettings, next); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
	return nil
}

// Only writeMu holders replace the slices, so they may read them without mu.
func (s *Store) linksCopy() []domain.Link {
	next := make([]domain.Link, len(s.links))
	copy(next, s.links)
	return next
}

func (s *Store) foldersCopy() []domain.Folder {
	next := make([]domain.Folder, len(s.folders))
	copy(next, s.folders)
	return next
}

func indexOfLink(links []domain.Link, id string) int {
	for i := range links {
		if links[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfFolder(folders []domain.Folder, id string) int {
	for i := range folders {
		if folders[i].ID == id {
			return i
		}
	}
	return -1
}
