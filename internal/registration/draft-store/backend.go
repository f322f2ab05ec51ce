// internal/registration/draft-store/backend.go
package draftstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"member-registration/internal/common/database"
)

// MemoryBackend keeps drafts in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// RedisBackend stores drafts as plain string values with an optional TTL.
type RedisBackend struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedisBackend(client *database.RedisClient, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return r.client.GetBytes(ctx, key)
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl)
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key)
}

// PostgresBackend stores drafts in the registration_drafts table.
type PostgresBackend struct {
	db *database.PostgresClient
}

const (
	createDraftTableSQL = `CREATE TABLE IF NOT EXISTS registration_drafts (
	key        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	selectDraftSQL = `SELECT data FROM registration_drafts WHERE key = $1`
	upsertDraftSQL = `INSERT INTO registration_drafts (key, data, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	deleteDraftSQL = `DELETE FROM registration_drafts WHERE key = $1`
)

func NewPostgresBackend(db *database.PostgresClient) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the drafts table when it does not exist.
func (p *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createDraftTableSQL); err != nil {
		return fmt.Errorf("create registration_drafts: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data string
	err := p.db.QueryRow(ctx, selectDraftSQL, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select draft %s: %w", key, err)
	}
	return []byte(data), true, nil
}

func (p *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	if _, err := p.db.Exec(ctx, upsertDraftSQL, key, string(value)); err != nil {
		return fmt.Errorf("upsert draft %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Exec(ctx, deleteDraftSQL, key); err != nil {
		return fmt.Errorf("delete draft %s: %w", key, err)
	}
	return nil
}
