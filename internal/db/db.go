package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
// When constraint is non-empty only that constraint matches.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

const (
	UsersUsernameKey  = "users_username_key"
	FriendshipPairKey = "friendships_pair_key"
)

func runMigrations(ctx context.Context, db *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			profile_picture TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT users_username_key UNIQUE (username)
			)`,
		`CREATE TABLE IF NOT EXISTS friendships (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			friend_id BIGINT NOT NULL REFERENCES users(id),
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','accepted','blocked')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (user_id <> friend_id)
			)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS friendships_pair_key
			ON friendships (LEAST(user_id, friend_id), GREATEST(user_id, friend_id))`,
		`CREATE INDEX IF NOT EXISTS friendships_friend_status_idx ON friendships (friend_id, status)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			sender_id BIGINT NOT NULL REFERENCES users(id),
			receiver_id BIGINT NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (sender_id <> receiver_id)
			)`,
		`CREATE INDEX IF NOT EXISTS messages_sender_idx ON messages (sender_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS messages_receiver_idx ON messages (receiver_id, created_at DESC)`,
	}

	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
