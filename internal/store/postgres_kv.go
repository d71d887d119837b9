package store

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresKV 把每个集合存为 record_collections 表中的一行
type PostgresKV struct {
	db *sql.DB
}

func NewPostgresKV(db *sql.DB) *PostgresKV { return &PostgresKV{db: db} }

const createCollectionsTable = `
	CREATE TABLE IF NOT EXISTS record_collections (
		name       TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// EnsureSchema 建表（幂等）
func (p *PostgresKV) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("failed to create record_collections: %w", err)
	}
	return nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) (string, error) {
	var payload string
	err := p.db.QueryRowContext(ctx,
		`SELECT payload FROM record_collections WHERE name = $1`, key,
	).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrMiss
		}
		return "", err
	}
	return payload, nil
}

// Set 单条 upsert，整段覆盖
func (p *PostgresKV) Set(ctx context.Context, key string, value string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO record_collections (name, payload, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name)
		 DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		key, value,
	)
	return err
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM record_collections WHERE name = $1`, key)
	return err
}
