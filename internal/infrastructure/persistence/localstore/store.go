// Package localstore is the client's persisted key-value state: the
// counterpart of browser local storage, kept in a local SQLite file.
package localstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/garyjia/expense-dashboard/pkg/database"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned by Get for a key that was never set or was removed
var ErrNotFound = errors.New("key not found")

// Store is a string key-value store
type Store struct {
	db     *database.DB
	logger *zap.Logger
}

// Open opens (and migrates) the store at path
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	db, err := database.New(database.DefaultConfig(path), logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Run(ctx, migrationsFS, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate local storage: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Get returns the value stored under key
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to read local storage key", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (s *Store) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		s.logger.Error("Failed to write local storage key", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Remove deletes keys. Missing keys are ignored.
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, "DELETE FROM local_storage WHERE key = ?", key); err != nil {
				return fmt.Errorf("failed to remove %s: %w", key, err)
			}
		}
		return nil
	})
}

// Keys lists the stored keys in lexical order
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM local_storage ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
