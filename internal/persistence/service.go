// Package persistence is the codec and durability boundary between the entity
// store and a namespaced kv.Backend. It owns no state of its own: it encodes,
// writes, enforces the storage quota and announces changes to other views.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/Samyk00/LinkVault/internal/domain"
	"github.com/Samyk00/LinkVault/internal/kv"
	"github.com/Samyk00/LinkVault/internal/logger"
)

// Durable record keys. They are never renamed: a rename orphans stored data.
const (
	KeyLinks    = "links"
	KeyFolders  = "folders"
	KeySettings = "settings"
)

// DefaultQuota mirrors the usual per-origin browser storage limit.
const DefaultQuota int64 = 5 * 1024 * 1024

// Keys lists every record owned by the application.
func Keys() []string {
	return []string{KeyLinks, KeyFolders, KeySettings}
}

// Options configures a Service.
type Options struct {
	// Quota caps the namespace footprint in bytes. Zero means DefaultQuota.
	Quota int64
	// Origin identifies the view whose writes this service publishes.
	// Empty generates a fresh one.
	Origin string
	Logger logger.Logger
	// Now is the clock, UTC by default.
	Now func() time.Time
}

// Service reads and writes the durable copies of the store's collections.
type Service struct {
	backend kv.Backend
	log     logger.Logger
	quota   int64
	origin  string
	now     func() time.Time
}

// New creates a Service over backend.
func New(backend kv.Backend, opts Options) *Service {
	if opts.Quota <= 0 {
		opts.Quota = DefaultQuota
	}
	if opts.Origin == "" {
		opts.Origin = domain.NewID()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		backend: backend,
		log:     opts.Logger.With(logger.String("backend", backend.Name()), logger.String("namespace", backend.Namespace())),
		quota:   opts.Quota,
		origin:  opts.Origin,
		now:     opts.Now,
	}
}

// Origin is the view id stamped on published changes.
func (s *Service) Origin() string { return s.origin }

// Quota is the configured capacity in bytes.
func (s *Service) Quota() int64 { return s.quota }

// Backend exposes the underlying backend for health checks.
func (s *Service) Backend() kv.Backend { return s.backend }

// GetItem decodes the record stored under key into dst.
// It returns false when the record is missing or corrupt; a corrupt record is
// logged and otherwise treated as absent. Only backend failures are errors.
func (s *Service) GetItem(ctx context.Context, key string, dst any) (bool, error) {
	raw, found, err := s.backend.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !found {
		return false, nil
	}

	// dst is only assigned once the whole record decodes.
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("GetItem %s: destination must be a non-nil pointer, got %T", key, dst)
	}
	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		s.log.Warn("Corrupt record ignored",
			logger.String("key", key),
			logger.Int("bytes", len(raw)),
			logger.Error(err),
		)
		return false, nil
	}
	target.Elem().Set(fresh.Elem())
	return true, nil
}

// SetItem encodes value and writes it under key.
// A write that would push the namespace past its quota fails with
// domain.ErrQuotaExceeded and leaves the stored value untouched.
func (s *Service) SetItem(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.write(ctx, map[string][]byte{key: data})
}

// write checks the quota, writes entries atomically and announces the change.
func (s *Service) write(ctx context.Context, entries map[string][]byte) error {
	current, err := s.backend.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to measure storage: %w", err)
	}

	for k, v := range entries {
		current[k] = v
	}
	if projected := s.footprint(current); projected > s.quota {
		s.log.Warn("Write rejected, storage quota exceeded",
			logger.Strings("keys", sortedKeys(entries)),
			logger.Int64("projected", projected),
			logger.Int64("quota", s.quota),
		)
		return fmt.Errorf("%w: %d of %d bytes", domain.ErrQuotaExceeded, projected, s.quota)
	}

	if err := s.backend.SetMany(ctx, entries); err != nil {
		if errors.Is(err, kv.ErrCapacity) {
			return fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
		}
		return fmt.Errorf("failed to write %v: %w", sortedKeys(entries), err)
	}

	s.announce(ctx, sortedKeys(entries))
	return nil
}

// announce tells other views that keys changed. The write already succeeded,
// so a failed notification is logged and not returned.
func (s *Service) announce(ctx context.Context, keys []string) {
	change := kv.Change{Origin: s.origin, Keys: keys, At: s.now()}
	if err := s.backend.Publish(ctx, change); err != nil {
		s.log.Warn("Failed to publish change", logger.Strings("keys", keys), logger.Error(err))
	}
}

// StorageSize returns the byte footprint of every application-owned key:
// the sum of namespaced key and value lengths.
func (s *Service) StorageSize(ctx context.Context) (int64, error) {
	current, err := s.backend.Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to measure storage: %w", err)
	}
	return s.footprint(current), nil
}

// Clear erases every application-owned key.
func (s *Service) Clear(ctx context.Context) error {
	current, err := s.backend.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	keys := sortedKeys(current)
	if len(keys) == 0 {
		return nil
	}
	if err := s.backend.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}

	s.log.Info("Storage cleared", logger.Int("keys", len(keys)))
	s.announce(ctx, keys)
	return nil
}

// Subscribe delivers change notifications from every view of the namespace.
func (s *Service) Subscribe(ctx context.Context) (kv.Subscription, error) {
	return s.backend.Subscribe(ctx)
}

func (s *Service) footprint(entries map[string][]byte) int64 {
	var total int64
	ns := s.backend.Namespace()
	for k, v := range entries {
		total += int64(len(kv.NamespacedKey(ns, k)) + len(v))
	}
	return total
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
