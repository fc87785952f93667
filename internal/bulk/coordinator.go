// Package bulk applies one user intent to every selected link.
// Actions are atomic in intent, not in effect: each link is its own store
// mutation, and a failure on one link does not undo the others.
package bulk

import (
	"context"
	"fmt"
	"sync"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/logger"
)

// LinkStore is the part of the entity store the coordinator drives.
type LinkStore interface {
	Link(id string) (domain.Link, bool)
	Folder(id string) (domain.Folder, bool)
	Selection() []string
	SetSelection(ids []string)
	ClearSelection()
	// PatchLink and TrashLink report false when the link was not written,
	// for instance because it vanished after the selection was resolved.
	PatchLink(ctx context.Context, id string, patch domain.LinkPatch) (bool, error)
	TrashLink(ctx context.Context, id string) (bool, error)
}

// MoveOptions tunes Move.
type MoveOptions struct {
	// TouchExisting rewrites links already in the target folder once the
	// user has confirmed, bumping their updatedAt.
	TouchExisting bool
}

// Coordinator runs bulk actions one at a time.
type Coordinator struct {
	mu      *sync.Mutex
	store   LinkStore
	confirm Confirmer
	log     logger.Logger
}

// New creates a coordinator. A nil confirmer approves every prompt.
func New(store LinkStore, confirm Confirmer, log logger.Logger) *Coordinator {
	if confirm == nil {
		confirm = Always(true)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{mu: &sync.Mutex{}, store: store, confirm: confirm, log: log}
}

// WithConfirmer returns a coordinator over the same store that asks confirm.
// Both share one lock, so their actions still never interleave.
func (c *Coordinator) WithConfirmer(confirm Confirmer) *Coordinator {
	if confirm == nil {
		confirm = Always(true)
	}
	return &Coordinator{mu: c.mu, store: c.store, confirm: confirm, log: c.log}
}

// Favorite sets the favorite flag on the selection. A mixed selection is
// favorited; a uniform one is flipped relative to its first link.
func (c *Coordinator) Favorite(ctx context.Context) (Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	links, missing := c.selected()
	report := Report{Action: ActionFavorite, Requested: len(links) + missing, Skipped: missing}
	if len(links) == 0 {
		c.finish(report)
		return report, nil
	}

	target := true
	if uniform(links) {
		target = !links[0].IsFavorite
	}
	if !target {
		report.Action = ActionUnfavorite
	}

	ctx = context.WithoutCancel(ctx)
	for _, l := range links {
		if l.IsFavorite == target {
			report.Skipped++
			continue
		}
		written, err := c.store.PatchLink(ctx, l.ID, domain.LinkPatch{IsFavorite: &target})
		c.apply(&report, l.ID, written, err)
	}

	c.finish(report)
	return report, nil
}

// Move files the selection under folderID, or unfiles it when folderID is nil.
// When some selected links are already there the user is asked first; they
// are then left untouched unless opts.TouchExisting is set.
func (c *Coordinator) Move(ctx context.Context, folderID *string, opts MoveOptions) (Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if folderID != nil {
		if _, ok := c.store.Folder(*folderID); !ok {
			return Report{}, domain.ErrUnknownFolder
		}
	}

	links, missing := c.selected()
	report := Report{Action: ActionMove, Requested: len(links) + missing, Skipped: missing}

	var pending, already []domain.Link
	for _, l := range links {
		if domain.SameRef(l.FolderID, folderID) {
			already = append(already, l)
		} else {
			pending = append(pending, l)
		}
	}

	if len(already) > 0 {
		count := len(pending)
		if opts.TouchExisting {
			count += len(already)
		}
		p := Prompt{
			Action:          ActionMove,
			Count:           count,
			AlreadyInTarget: len(already),
			Message:         fmt.Sprintf("%d of %d selected links are already in this folder", len(already), len(links)),
		}
		if err := c.ask(ctx, p); err != nil {
			return Report{}, err
		}
		if opts.TouchExisting {
			pending = append(pending, already...)
		} else {
			report.Skipped += len(already)
		}
	}

	ctx = context.WithoutCancel(ctx)
	for _, l := range pending {
		patch := domain.LinkPatch{FolderID: domain.OptionalID{Set: true, ID: folderID}}
		written, err := c.store.PatchLink(ctx, l.ID, patch)
		c.apply(&report, l.ID, written, err)
	}

	c.finish(report)
	return report, nil
}

// Delete moves the selection to the trash after one confirmation. Links
// already in the trash are skipped. Nothing is deleted permanently.
func (c *Coordinator) Delete(ctx context.Context) (Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	links, missing := c.selected()
	report := Report{Action: ActionDelete, Requested: len(links) + missing, Skipped: missing}

	active := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if l.InTrash() {
			report.Skipped++
			continue
		}
		active = append(active, l)
	}
	if len(active) == 0 {
		c.finish(report)
		return report, nil
	}

	p := Prompt{
		Action:  ActionDelete,
		Count:   len(active),
		Message: fmt.Sprintf("move %d links to the trash", len(active)),
	}
	if err := c.ask(ctx, p); err != nil {
		return Report{}, err
	}

	ctx = context.WithoutCancel(ctx)
	for _, l := range active {
		written, err := c.store.TrashLink(ctx, l.ID)
		c.apply(&report, l.ID, written, err)
	}

	c.finish(report)
	return report, nil
}

// selected resolves the selection. Ids that no longer exist are counted as missing.
func (c *Coordinator) selected() ([]domain.Link, int) {
	ids := c.store.Selection()
	links := make([]domain.Link, 0, len(ids))
	missing := 0
	for _, id := range ids {
		l, ok := c.store.Link(id)
		if !ok {
			missing++
			continue
		}
		links = append(links, l)
	}
	return links, missing
}

func (c *Coordinator) ask(ctx context.Context, p Prompt) error {
	ok, err := c.confirm.Confirm(ctx, p)
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		c.log.Info("Bulk action declined", logger.String("action", string(p.Action)), logger.Int("count", p.Count))
		return &DeclinedError{Prompt: p}
	}
	return nil
}

func (c *Coordinator) apply(report *Report, id string, written bool, err error) {
	switch {
	case err != nil:
		report.Failures = append(report.Failures, Failure{ID: id, Err: err})
	case !written:
		report.Skipped++
	default:
		report.Mutated++
	}
}

// finish clears the selection on full success and otherwise keeps only the
// links that failed, so the user can retry them.
func (c *Coordinator) finish(report Report) {
	if report.Failed() == 0 {
		c.store.ClearSelection()
	} else {
		c.store.SetSelection(report.failedIDs())
	}

	fields := []logger.Field{
		logger.String("action", string(report.Action)),
		logger.Int("requested", report.Requested),
		logger.Int("mutated", report.Mutated),
		logger.Int("skipped", report.Skipped),
		logger.Int("failed", report.Failed()),
	}
	if report.Failed() > 0 {
		c.log.Warn("Bulk action partially failed", append(fields, logger.Error(report.Err()))...)
		return
	}
	c.log.Info("Bulk action applied", fields...)
}

func uniform(links []domain.Link) bool {
	for _, l := range links[1:] {
		if l.IsFavorite != links[0].IsFavorite {
			return false
		}
	}
	return true
}
