// Package hierarchy holds pure queries over a folder collection snapshot.
// Nothing here mutates its input.
package hierarchy

import "github.com/Samyk00/LinkVault/internal/domain"

// GetRootFolders returns folders without a parent, in collection order.
func GetRootFolders(folders []domain.Folder) []domain.Folder {
	roots := make([]domain.Folder, 0, len(folders))
	for _, f := range folders {
		if f.ParentID == nil {
			roots = append(roots, f)
		}
	}
	return roots
}

// GetChildFolders returns the direct children of parentID, in collection order.
func GetChildFolders(parentID string, folders []domain.Folder) []domain.Folder {
	var children []domain.Folder
	for _, f := range folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			children = append(children, f)
		}
	}
	return children
}

// GetAllDescendantFolderIds returns folderID followed by every folder below it.
// It recurses without assuming the two-level cap, and tolerates cycles in
// corrupted data by visiting each folder once.
func GetAllDescendantFolderIds(folderID string, folders []domain.Folder) []string {
	visited := map[string]bool{folderID: true}
	ids := []string{folderID}
	return collectDescendants(folderID, folders, visited, ids)
}

func collectDescendants(parentID string, folders []domain.Folder, visited map[string]bool, ids []string) []string {
	for _, child := range GetChildFolders(parentID, folders) {
		if visited[child.ID] {
			continue
		}
		visited[child.ID] = true
		ids = append(ids, child.ID)
		ids = collectDescendants(child.ID, folders, visited, ids)
	}
	return ids
}

// GetSubFolderCount counts folders whose parent is parentID.
func GetSubFolderCount(parentID string, folders []domain.Folder) int {
	n := 0
	for _, f := range folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			n++
		}
	}
	return n
}

// CanAddSubFolder reports whether parentID is below its fan-out limit.
func CanAddSubFolder(parentID string, folders []domain.Folder, maxSubFolders int) bool {
	return GetSubFolderCount(parentID, folders) < maxSubFolders
}

// Depth returns how many levels the folder sits at (1 for roots).
// Dangling parents count as roots, matching how stale references are read.
func Depth(folderID string, folders []domain.Folder) int {
	byID := index(folders)
	depth := 0
	seen := make(map[string]bool)
	for id := folderID; id != "" && !seen[id]; {
		seen[id] = true
		f, ok := byID[id]
		if !ok {
			break
		}
		depth++
		if f.ParentID == nil {
			break
		}
		id = *f.ParentID
	}
	return depth
}

// Find returns the folder with the given id.
func Find(id string, folders []domain.Folder) (domain.Folder, bool) {
	for _, f := range folders {
		if f.ID == id {
			return f, true
		}
	}
	return domain.Folder{}, false
}

// ValidatePlacement checks that a folder may sit under parentID.
// folderID is empty for a folder being created. A nil parent is always valid.
// Errors are domain validation errors: ErrUnknownParent, ErrFolderDepth, ErrFolderFanOut.
func ValidatePlacement(folderID string, parentID *string, folders []domain.Folder, maxSubFolders int) error {
	if parentID == nil {
		return nil
	}

	parent, ok := Find(*parentID, folders)
	if !ok {
		return domain.ErrUnknownParent
	}
	if parent.ID == folderID || !IsRoot(parent, folders) {
		return domain.ErrFolderDepth
	}
	// A folder with children of its own would push them to a third level.
	if folderID != "" && GetSubFolderCount(folderID, folders) > 0 {
		return domain.ErrFolderDepth
	}

	count := GetSubFolderCount(parent.ID, folders)
	if folderID != "" {
		if current, ok := Find(folderID, folders); ok && domain.SameRef(current.ParentID, parentID) {
			// Staying under the same parent does not add a child.
			count--
		}
	}
	if count >= maxSubFolders {
		return domain.ErrFolderFanOut
	}
	return nil
}

// IsRoot reports whether f sits at the top level: it has no parent, or its
// parent no longer exists.
func IsRoot(f domain.Folder, folders []domain.Folder) bool {
	return ResolveFolderID(f.ParentID, folders) == nil
}

// ResolveFolderID returns the folder id a link should be read under: nil when
// the link is unfiled or its folder no longer exists.
func ResolveFolderID(folderID *string, folders []domain.Folder) *string {
	if folderID == nil {
		return nil
	}
	if _, ok := Find(*folderID, folders); !ok {
		return nil
	}
	return folderID
}

func index(folders []domain.Folder) map[string]domain.Folder {
	byID := make(map[string]domain.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	return byID
}
