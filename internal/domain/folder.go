package domain

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxFolderDepth is the number of levels a folder tree may have.
	MaxFolderDepth = 2
	// MaxFolderNameLength bounds folder names, in runes.
	MaxFolderNameLength = 50
	// DefaultMaxSubFolders is the per-parent fan-out used when none is configured.
	DefaultMaxSubFolders = 10
)

// Folder groups links. Trees are at most two levels deep.
type Folder struct {
	ID          string
	Name        string
	Description string

	// Color and Icon are presentation hints only.
	Color string
	Icon  string

	// ParentID is nil for root folders. A non-nil parent is itself a root.
	ParentID *string

	// IsPlatformFolder marks the built-in root folders created on first load.
	IsPlatformFolder bool
	// Platform is set only for platform folders.
	Platform Platform

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRoot reports whether the folder has no parent.
func (f Folder) IsRoot() bool {
	return f.ParentID == nil
}

// Clone returns a deep copy safe to hand to readers.
func (f Folder) Clone() Folder {
	f.ParentID = cloneRef(f.ParentID)
	return f
}

type folderJSON struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Color            string    `json:"color"`
	Icon             string    `json:"icon"`
	ParentID         *string   `json:"parentId"`
	IsPlatformFolder bool      `json:"isPlatformFolder"`
	Platform         Platform  `json:"platform,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (f Folder) MarshalJSON() ([]byte, error) {
	return json.Marshal(folderJSON(f))
}

func (f *Folder) UnmarshalJSON(data []byte) error {
	var w folderJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*f = Folder(w)
	return nil
}

// FolderInput carries the caller-supplied fields of a new folder.
type FolderInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	ParentID    *string `json:"parentId"`
}

// NewFolder builds a user folder stamped at now. Hierarchy limits are checked by the caller.
func NewFolder(in FolderInput, now time.Time) (Folder, error) {
	name, err := NormalizeFolderName(in.Name)
	if err != nil {
		return Folder{}, err
	}
	return Folder{
		ID:          NewID(),
		Name:        name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		ParentID:    cloneRef(in.ParentID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewPlatformFolder builds the built-in root folder for a platform.
func NewPlatformFolder(p Platform, name, color, icon string, now time.Time) Folder {
	return Folder{
		ID:               NewID(),
		Name:             name,
		Color:            color,
		Icon:             icon,
		IsPlatformFolder: true,
		Platform:         p,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NormalizeFolderName trims the name and enforces its length bounds.
func NormalizeFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxFolderNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// FolderPatch is a shallow partial update. Nil fields are left unchanged.
type FolderPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Color       *string    `json:"color,omitempty"`
	Icon        *string    `json:"icon,omitempty"`
	ParentID    OptionalID `json:"parentId"`
}

// Apply merges the patch into f. The name must already be normalized.
func (p FolderPatch) Apply(f *Folder) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Color != nil {
		f.Color = *p.Color
	}
	if p.Icon != nil {
		f.Icon = *p.Icon
	}
	if p.ParentID.Set {
		f.ParentID = cloneRef(p.ParentID.ID)
	}
}
