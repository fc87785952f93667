package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	namespace  TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      BLOB    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, key)
)`

const sqliteUpsert = `
INSERT INTO kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// SQLite keeps the namespace in a single-file database. Notifications only
// reach views inside the same process.
type SQLite struct {
	conn      *sql.DB
	path      string
	namespace string
	hub       *hub
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path, namespace string) (*SQLite, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	uri := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", abs)
	conn, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLite{
		conn:      conn,
		path:      abs,
		namespace: namespace,
		hub:       sharedHub(abs + "#" + namespace),
	}, nil
}

func (s *SQLite) Name() string      { return "sqlite" }
func (s *SQLite) Namespace() string { return s.namespace }

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.conn.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, s.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.conn.ExecContext(ctx, sqliteUpsert, s.namespace, key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, mapSQLiteError(err))
	}
	return nil
}

func (s *SQLite) SetMany(ctx context.Context, entries map[string][]byte) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := time.Now().UnixMilli()
	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, sqliteUpsert, s.namespace, key, value, now); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, mapSQLiteError(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", mapSQLiteError(err))
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys)+1)
	args = append(args, s.namespace)
	for _, k := range keys {
		args = append(args, k)
	}
	query := fmt.Sprintf(`DELETE FROM kv WHERE namespace = ? AND key IN (%s)`, placeholders)
	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

func (s *SQLite) Scan(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT key, value FROM kv WHERE namespace = ?`, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to scan namespace: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

func (s *SQLite) Publish(_ context.Context, change Change) error {
	s.hub.publish(change)
	return nil
}

func (s *SQLite) Subscribe(_ context.Context) (Subscription, error) {
	return s.hub.subscribe(), nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func mapSQLiteError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "SQLITE_FULL") || strings.Contains(msg, "database or disk is full") {
		return fmt.Errorf("%w: %v", ErrCapacity, err)
	}
	return err
}
