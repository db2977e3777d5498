// Package sqlite implements the finch Store on a relational SQLite
// database. Every owned-entity query carries the owning-user equality
// constraint injected by this layer; it is never taken from caller input.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/interfaces"

	_ "modernc.org/sqlite"
)

// Store implements interfaces.Store on SQLite.
type Store struct {
	db     *sql.DB
	logger *common.Logger
}

// New opens (creating if necessary) the database at path and runs the
// embedded migrations.
func New(logger *common.Logger, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database opened")
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ interfaces.Store = (*Store)(nil)
