// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pgstore is a storage.Adapter backed by a PostgreSQL table.
// It lets several machines share persisted auth sessions through one database.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/logging"
)

// DefaultTable is used when no table name is configured.
const DefaultTable = "authgate_storage"

var reTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// querier is the subset of pgxpool.Pool the store uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists items in a two-column table (key, value).
type Store struct {
	db    querier
	pool  *pgxpool.Pool
	table string
}

// Open connects to dsn, ensures the table exists and returns a Store.
// Connection errors are reported with credentials masked.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if !reTable.MatchString(table) {
		return nil, apperrors.New(apperrors.InvalidConfig, fmt.Sprintf("invalid table name %q", table))
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperrors.New(apperrors.InvalidConfig, logging.PresentError("parse postgres DSN", err))
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, apperrors.New(apperrors.StorageUnavailable, logging.PresentError("connect postgres", err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.New(apperrors.StorageUnavailable, logging.PresentError("ping postgres", err))
	}

	s := &Store{db: pool, pool: pool, table: table}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// newWithQuerier builds a Store over an existing querier without touching the schema.
func newWithQuerier(db querier, table string) *Store {
	return &Store{db: db, table: table}
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.table))
	if err != nil {
		return apperrors.Wrap(apperrors.StorageUnavailable, "create "+s.table, err)
	}
	return nil
}

// GetItem implements storage.Adapter.
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(ctx, fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table), key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetItem implements storage.Adapter.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, s.table), key, value)
	return err
}

// RemoveItem implements storage.Adapter.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table), key)
	return err
}
