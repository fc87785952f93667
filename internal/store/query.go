package store

import (
	"strings"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/hierarchy"
)

// LinkFilter narrows Links. The zero value selects every active link.
type LinkFilter struct {
	// Trash selects trashed links instead of active ones.
	Trash bool
	// FavoritesOnly keeps favorites.
	FavoritesOnly bool
	// Unfiled keeps links without a folder, including those whose folder was deleted.
	Unfiled bool
	// FolderID keeps links in the folder or any folder below it.
	FolderID string
	Platform domain.Platform
	// Query matches title, URL and description, case-insensitively.
	Query string
}

// Links returns copies of the matching links in collection order.
func (s *Store) Links(f LinkFilter) []domain.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var inFolder map[string]bool
	if f.FolderID != "" {
		ids := hierarchy.GetAllDescendantFolderIds(f.FolderID, s.folders)
		inFolder = make(map[string]bool, len(ids))
		for _, id := range ids {
			inFolder[id] = true
		}
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Link, 0, len(s.links))
	for _, l := range s.links {
		if l.InTrash() != f.Trash {
			continue
		}
		if f.FavoritesOnly && !l.IsFavorite {
			continue
		}
		if f.Platform != "" && l.Platform != f.Platform {
			continue
		}
		folder := hierarchy.ResolveFolderID(l.FolderID, s.folders)
		if f.Unfiled && folder != nil {
			continue
		}
		if inFolder != nil && (folder == nil || !inFolder[*folder]) {
			continue
		}
		if query != "" && !matches(l, query) {
			continue
		}
		out = append(out, l.Clone())
	}
	return out
}

func matches(l domain.Link, query string) bool {
	return strings.Contains(strings.ToLower(l.Title), query) ||
		strings.Contains(strings.ToLower(l.URL), query) ||
		strings.Contains(strings.ToLower(l.Description), query)
}

// Link returns the link with id, trashed or not.
func (s *Store) Link(id string) (domain.Link, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOfLink(s.links, id); i >= 0 {
		return s.links[i].Clone(), true
	}
	return domain.Link{}, false
}

// Folder returns the folder with id.
func (s *Store) Folder(id string) (domain.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOfFolder(s.folders, id); i >= 0 {
		return s.folders[i].Clone(), true
	}
	return domain.Folder{}, false
}

// Folders returns copies of every folder in collection order.
func (s *Store) Folders() []domain.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Folder, len(s.folders))
	for i, f := range s.folders {
		out[i] = f.Clone()
	}
	return out
}

// RootFolders returns the top-level folders, including sub-folders whose
// parent was deleted.
func (s *Store) RootFolders() []domain.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		if hierarchy.IsRoot(f, s.folders) {
			out = append(out, f.Clone())
		}
	}
	return out
}

// ChildFolders returns the direct children of parentID.
func (s *Store) ChildFolders(parentID string) []domain.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	children := hierarchy.GetChildFolders(parentID, s.folders)
	out := make([]domain.Folder, len(children))
	for i, f := range children {
		out[i] = f.Clone()
	}
	return out
}

// CanAddSubFolder reports whether parentID can take another child. A folder
// whose parent was deleted is a root and may.
func (s *Store) CanAddSubFolder(parentID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parent, ok := hierarchy.Find(parentID, s.folders)
	if !ok || !hierarchy.IsRoot(parent, s.folders) {
		return false
	}
	return hierarchy.CanAddSubFolder(parentID, s.folders, s.maxSubFolders)
}

// Counts summarises active links for navigation badges.
type Counts struct {
	All       int `json:"all"`
	Favorites int `json:"favorites"`
	Unfiled   int `json:"unfiled"`
	Trash     int `json:"trash"`
	// Folders holds, per folder id, the active links in it or below it.
	Folders map[string]int `json:"folders"`
	// Platforms holds active links per platform.
	Platforms map[domain.Platform]int `json:"platforms"`
}

// Counts computes link totals.
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := Counts{
		Folders:   make(map[string]int, len(s.folders)),
		Platforms: make(map[domain.Platform]int),
	}
	direct := make(map[string]int, len(s.folders))
	for _, l := range s.links {
		if l.InTrash() {
			c.Trash++
			continue
		}
		c.All++
		c.Platforms[l.Platform]++
		if l.IsFavorite {
			c.Favorites++
		}
		if folder := hierarchy.ResolveFolderID(l.FolderID, s.folders); folder != nil {
			direct[*folder]++
		} else {
			c.Unfiled++
		}
	}

	for _, f := range s.folders {
		total := 0
		for _, id := range hierarchy.GetAllDescendantFolderIds(f.ID, s.folders) {
			total += direct[id]
		}
		c.Folders[f.ID] = total
	}
	return c
}
