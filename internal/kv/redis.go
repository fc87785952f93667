package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/Samyk00/LinkVault/internal/logger"
)

// Redis stores each key as a plain string value without TTL and
// announces changes on the namespace's pub/sub channel.
type Redis struct {
	client    *redis.Client
	namespace string
	logger    logger.Logger
}

// NewRedis wraps a connected client. Close closes the client.
func NewRedis(client *redis.Client, namespace string, log logger.Logger) *Redis {
	return &Redis{
		client:    client,
		namespace: namespace,
		logger:    log,
	}
}

func (r *Redis) Name() string      { return "redis" }
func (r *Redis) Namespace() string { return r.namespace }

// Get retrieves a value by short key
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, NamespacedKey(r.namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores a single value
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, NamespacedKey(r.namespace, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, mapRedisError(err))
	}
	return nil
}

// SetMany stores several values in one MULTI/EXEC transaction
func (r *Redis) SetMany(ctx context.Context, entries map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range entries {
			pipe.Set(ctx, NamespacedKey(r.namespace, key), value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save %d keys: %w", len(entries), mapRedisError(err))
	}
	return nil
}

// Delete removes keys
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, NamespacedKey(r.namespace, k))
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// Scan returns every key under the namespace
func (r *Redis) Scan(ctx context.Context) (map[string][]byte, error) {
	var stored []string
	iter := r.client.Scan(ctx, 0, r.namespace+":*", 0).Iterator()
	for iter.Next(ctx) {
		stored = append(stored, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan namespace: %w", err)
	}

	out := make(map[string][]byte, len(stored))
	if len(stored) == 0 {
		return out, nil
	}

	values, err := r.client.MGet(ctx, stored...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read namespace: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Deleted between SCAN and MGET
			continue
		}
		key, err := ExtractKey(r.namespace, stored[i])
		if err != nil {
			continue
		}
		out[key] = []byte(s)
	}
	return out, nil
}

// Publish announces a change to every subscribed view
func (r *Redis) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}
	if err := r.client.Publish(ctx, ChangesChannel(r.namespace), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}
	return nil
}

// Subscribe listens on the namespace channel. go-redis reconnects the
// underlying PubSub on its own; undecodable messages are dropped.
func (r *Redis) Subscribe(ctx context.Context) (Subscription, error) {
	pubsub := r.client.Subscribe(ctx, ChangesChannel(r.namespace))
	// Wait for the subscription confirmation so no publish is missed after return.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan Change, subscriberBuffer),
		done:   make(chan struct{}),
	}
	go sub.forward(r.logger)
	return sub, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan Change
	done   chan struct{}
	once   sync.Once
}

func (s *redisSubscription) forward(log logger.Logger) {
	defer close(s.ch)
	for {
		select {
		case msg, ok := <-s.pubsub.Channel():
			if !ok {
				return
			}
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				log.Warn("dropping malformed change notification",
					logger.String("channel", msg.Channel),
					logger.Error(err))
				continue
			}
			select {
			case s.ch <- change:
			default:
			}
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) Changes() <-chan Change { return s.ch }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

// mapRedisError turns a maxmemory rejection into ErrCapacity.
func mapRedisError(err error) error {
	if err != nil && strings.HasPrefix(err.Error(), "OOM ") {
		return fmt.Errorf("%w: %v", ErrCapacity, err)
	}
	return err
}
