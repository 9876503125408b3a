package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		verification_token TEXT,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS wrestlers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS wrestlers_lower_name_idx ON wrestlers (LOWER(name))`,
	`CREATE TABLE IF NOT EXISTS daily_wrestlers (
		day DATE PRIMARY KEY,
		wrestler_id TEXT NOT NULL REFERENCES wrestlers (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS sources (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		rss_url TEXT,
		base_url TEXT,
		source_score DOUBLE PRECISION NOT NULL DEFAULT 0.5,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		canonical_url TEXT NOT NULL UNIQUE,
		content_snippet TEXT,
		thumbnail_url TEXT,
		published_at TIMESTAMPTZ,
		dedup_group_id TEXT,
		upvotes INTEGER NOT NULL DEFAULT 0,
		downvotes INTEGER NOT NULL DEFAULT 0,
		credibility_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		credibility_label TEXT NOT NULL DEFAULT 'Rumor',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS articles_dedup_group_idx ON articles (dedup_group_id)`,
	`CREATE INDEX IF NOT EXISTS articles_created_at_idx ON articles (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS article_sources (
		article_id BIGINT NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
		source_id BIGINT NOT NULL REFERENCES sources (id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		PRIMARY KEY (article_id, source_id)
	)`,
	`CREATE TABLE IF NOT EXISTS votes (
		id BIGSERIAL PRIMARY KEY,
		article_id BIGINT NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		is_upvote BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, article_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGSERIAL PRIMARY KEY,
		article_id BIGINT NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		body TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates any missing tables and indexes. Every statement is
// idempotent, so it runs on each startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
