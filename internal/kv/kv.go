// Package kv is the durable key-value layer under the persistence service.
// Every backend is scoped to one namespace, the equivalent of a browser origin:
// keys passed in and out are short names ("links"), stored as "<namespace>:links".
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrCapacity is returned when the backend refuses a write for lack of space.
var ErrCapacity = errors.New("kv: backend out of capacity")

// Change announces that keys were written or removed by some view.
type Change struct {
	Origin string    `json:"origin"` // view that performed the write
	Keys   []string  `json:"keys"`
	At     time.Time `json:"at"`
}

// Subscription delivers changes published by any view of the namespace,
// including the subscriber's own writes.
type Subscription interface {
	Changes() <-chan Change
	Close() error
}

// Backend is a namespaced durable key-value store with change notification.
type Backend interface {
	// Name identifies the backend kind ("redis", "sqlite", "memory").
	Name() string
	// Namespace is the prefix shared by every key of this dataset.
	Namespace() string

	// Get returns the value and true, or false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all entries or none.
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	// Scan returns every key owned by the namespace with its value.
	Scan(ctx context.Context) (map[string][]byte, error)

	Publish(ctx context.Context, change Change) error
	Subscribe(ctx context.Context) (Subscription, error)

	Ping(ctx context.Context) error
	Close() error
}
