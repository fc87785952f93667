package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/kv"
	"github.com/Samyk00/LinkVault/internal/logger"
	"github.com/Samyk00/LinkVault/internal/persistence"
	"github.com/Samyk00/LinkVault/internal/store"
)

func newView(t *testing.T, backend kv.Backend, log logger.Logger) (*store.Store, *persistence.Service) {
	t.Helper()
	svc := persistence.New(backend, persistence.Options{Logger: log})
	s := store.New(svc, store.Options{Logger: log})
	if err := s.LoadFromStorage(context.Background()); err != nil {
		t.Fatalf("LoadFromStorage failed: %v", err)
	}
	return s, svc
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStorageWatcherReloadsOnForeignWrites(t *testing.T) {
	log := logger.New("error", false)
	backend := kv.NewMemory("lv")
	a, _ := newView(t, backend, log)
	b, bSvc := newView(t, backend, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewStorageWatcher(b, bSvc, log, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	l, err := a.AddLink(ctx, domain.LinkInput{URL: "https://go.dev"})
	if err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}

	eventually(t, func() bool {
		_, ok := b.Link(l.ID)
		return ok
	})
}

// countingView counts reloads and shares an origin with the publisher.
type countingView struct {
	id      string
	reloads atomic.Int32
}

func (v *countingView) LoadFromStorage(context.Context) error {
	v.reloads.Add(1)
	return nil
}

func (v *countingView) ViewID() string { return v.id }

func TestStorageWatcherIgnoresOwnWrites(t *testing.T) {
	backend := kv.NewMemory("lv")
	view := &countingView{id: "self"}
	trigger := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewStorageWatcher(view, backend, logger.New("error", false), trigger)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := backend.Publish(ctx, kv.Change{Origin: "self", Keys: []string{"links"}}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := backend.Publish(ctx, kv.Change{Origin: "other", Keys: []string{"links"}}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	eventually(t, func() bool { return view.reloads.Load() == 1 })

	trigger <- struct{}{}
	eventually(t, func() bool { return view.reloads.Load() == 2 })
}

// fakePurger records the cutoff it was asked for.
type fakePurger struct {
	mu      sync.Mutex
	cutoffs []time.Time
	removed int
}

func (p *fakePurger) PurgeTrash(_ context.Context, cutoff time.Time) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoff)
	return p.removed, nil
}

func TestTrashCollector_Collect(t *testing.T) {
	log := logger.New("error", false)
	backend := kv.NewMemory("lv")
	s, _ := newView(t, backend, log)
	ctx := context.Background()

	old, err := s.AddLink(ctx, domain.LinkInput{URL: "https://old.example"})
	if err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}
	if err := s.DeleteLink(ctx, old.ID); err != nil {
		t.Fatalf("DeleteLink failed: %v", err)
	}
	keep, err := s.AddLink(ctx, domain.LinkInput{URL: "https://keep.example"})
	if err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}

	tc := NewTrashCollector(s, log, time.Hour, 30*24*time.Hour)

	// Nothing has been in the trash for 30 days yet.
	removed, err := tc.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Expected 0 links removed, got %d", removed)
	}

	// 31 days later the trashed link is purged, the active one stays.
	tc.now = func() time.Time { return time.Now().UTC().Add(31 * 24 * time.Hour) }
	removed, err = tc.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 link removed, got %d", removed)
	}
	if _, ok := s.Link(old.ID); ok {
		t.Error("Trashed link was not purged")
	}
	if _, ok := s.Link(keep.ID); !ok {
		t.Error("Active link was incorrectly removed")
	}
}

func TestTrashCollectorDisabled(t *testing.T) {
	p := &fakePurger{}
	tc := NewTrashCollector(p, logger.New("error", false), time.Hour, 0)

	if err := tc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	tc.Stop()

	if len(p.cutoffs) != 0 {
		t.Errorf("Expected no purge with retention disabled, got %d", len(p.cutoffs))
	}
}

func TestTrashCollectorCutoff(t *testing.T) {
	p := &fakePurger{removed: 2}
	tc := NewTrashCollector(p, logger.New("error", false), time.Hour, 24*time.Hour)
	now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	tc.now = func() time.Time { return now }

	removed, err := tc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2, got %d", removed)
	}
	if want := now.Add(-24 * time.Hour); !p.cutoffs[0].Equal(want) {
		t.Errorf("cutoff = %v, want %v", p.cutoffs[0], want)
	}
}
