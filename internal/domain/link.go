package domain

import (
	"encoding/json"
	"time"
)

// Link is a saved reference to a web page.
type Link struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is generated at creation and never reused.
	ID string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// URL is stored as given; the store does not re-validate it.
	URL         string
	Title       string
	Description string

	// Thumbnail is an opaque image URI, or empty.
	Thumbnail string

	Platform Platform

	// ─────────────────────────────
	// Organisation
	// ─────────────────────────────

	// FolderID references a Folder, or nil for "unfiled".
	// A reference to a deleted folder is left in place and read as unfiled.
	FolderID *string

	IsFavorite bool

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	// State is Active or Trashed(at).
	State Lifecycle

	CreatedAt time.Time

	// UpdatedAt is bumped by every mutation and never precedes CreatedAt.
	UpdatedAt time.Time
}

// InTrash reports whether the link has been soft-deleted.
func (l Link) InTrash() bool {
	return l.State.IsTrashed()
}

// Clone returns a deep copy safe to hand to readers.
func (l Link) Clone() Link {
	l.FolderID = cloneRef(l.FolderID)
	return l
}

// linkJSON is the persisted and exported shape of a Link.
type linkJSON struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Thumbnail   string     `json:"thumbnail"`
	Platform    Platform   `json:"platform"`
	FolderID    *string    `json:"folderId"`
	IsFavorite  bool       `json:"isFavorite"`
	DeletedAt   *time.Time `json:"deletedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(linkJSON{
		ID:          l.ID,
		URL:         l.URL,
		Title:       l.Title,
		Description: l.Description,
		Thumbnail:   l.Thumbnail,
		Platform:    l.Platform,
		FolderID:    l.FolderID,
		IsFavorite:  l.IsFavorite,
		DeletedAt:   l.State.timestamp(),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	})
}

func (l *Link) UnmarshalJSON(data []byte) error {
	var w linkJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*l = Link{
		ID:          w.ID,
		URL:         w.URL,
		Title:       w.Title,
		Description: w.Description,
		Thumbnail:   w.Thumbnail,
		Platform:    w.Platform,
		FolderID:    w.FolderID,
		IsFavorite:  w.IsFavorite,
		State:       lifecycleFrom(w.DeletedAt),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	return nil
}

// LinkInput carries the caller-supplied fields of a new link.
type LinkInput struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	Platform    Platform `json:"platform"`
	FolderID    *string  `json:"folderId"`
	IsFavorite  bool     `json:"isFavorite"`
}

// NewLink builds an active link stamped at now.
// An empty platform is derived from the URL.
func NewLink(in LinkInput, now time.Time) (Link, error) {
	platform := in.Platform
	if platform == "" {
		platform = DetectPlatform(in.URL)
	}
	if !platform.Valid() {
		return Link{}, ErrInvalidPlatform
	}

	return Link{
		ID:          NewID(),
		URL:         in.URL,
		Title:       in.Title,
		Description: in.Description,
		Thumbnail:   in.Thumbnail,
		Platform:    platform,
		FolderID:    cloneRef(in.FolderID),
		IsFavorite:  in.IsFavorite,
		State:       Active(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// LinkPatch is a shallow partial update. Nil fields are left unchanged.
type LinkPatch struct {
	URL         *string    `json:"url,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Thumbnail   *string    `json:"thumbnail,omitempty"`
	Platform    *Platform  `json:"platform,omitempty"`
	FolderID    OptionalID `json:"folderId"`
	IsFavorite  *bool      `json:"isFavorite,omitempty"`
}

// Validate rejects values outside their enumerations.
func (p LinkPatch) Validate() error {
	if p.Platform != nil && !p.Platform.Valid() {
		return ErrInvalidPlatform
	}
	return nil
}

// Apply merges the patch into l.
func (p LinkPatch) Apply(l *Link) {
	if p.URL != nil {
		l.URL = *p.URL
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Thumbnail != nil {
		l.Thumbnail = *p.Thumbnail
	}
	if p.Platform != nil {
		l.Platform = *p.Platform
	}
	if p.FolderID.Set {
		l.FolderID = cloneRef(p.FolderID.ID)
	}
	if p.IsFavorite != nil {
		l.IsFavorite = *p.IsFavorite
	}
}

// Touch stamps UpdatedAt, keeping it monotonic even if the clock stepped back.
func Touch(prev, created, now time.Time) time.Time {
	if now.Before(prev) {
		now = prev
	}
	if now.Before(created) {
		now = created
	}
	return now
}
