package kv

import (
	"context"
	"sync"
)

// Memory is a process-local backend. Views sharing one *Memory see each other's
// writes and notifications. MaxBytes, when positive, emulates a hard host quota.
type Memory struct {
	mu        sync.RWMutex
	namespace string
	data      map[string][]byte
	hub       *hub
	maxBytes  int64
}

// NewMemory creates an empty in-memory backend.
func NewMemory(namespace string) *Memory {
	return &Memory{
		namespace: namespace,
		data:      make(map[string][]byte),
		hub:       newHub(),
	}
}

// WithMaxBytes sets a hard capacity measured like the persistence footprint.
func (m *Memory) WithMaxBytes(n int64) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxBytes = n
	return m
}

func (m *Memory) Name() string      { return "memory" }
func (m *Memory) Namespace() string { return m.namespace }

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	return m.SetMany(ctx, map[string][]byte{key: value})
}

func (m *Memory) SetMany(_ context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxBytes > 0 && m.projectedLocked(entries) > m.maxBytes {
		return ErrCapacity
	}
	for k, v := range entries {
		m.data[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *Memory) projectedLocked(entries map[string][]byte) int64 {
	var total int64
	for k, v := range m.data {
		if _, replaced := entries[k]; replaced {
			continue
		}
		total += int64(len(NamespacedKey(m.namespace, k)) + len(v))
	}
	for k, v := range entries {
		total += int64(len(NamespacedKey(m.namespace, k)) + len(v))
	}
	return total
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) Scan(_ context.Context) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		out[k] = append([]byte(nil), v...)
	}
	return out, nil
}

func (m *Memory) Publish(_ context.Context, change Change) error {
	m.hub.publish(change)
	return nil
}

func (m *Memory) Subscribe(_ context.Context) (Subscription, error) {
	return m.hub.subscribe(), nil
}

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Close() error               { return nil }
