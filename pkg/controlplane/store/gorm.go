// Package store implements the relay's Log Store: a relational, concurrent-
// safe home for log rows, raw payload blobs, derived APDU events, and admin
// accounts/tokens.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config contains Log Store configuration.
type Config struct {
	// Path is the path to the SQLite database file, e.g. <log_dir>/logs.sqlite3.
	Path string
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("sqlite path is required")
	}
	return nil
}

// GORMStore implements the Log Store on top of GORM + SQLite.
type GORMStore struct {
	db     *gorm.DB
	config *Config
}

// New opens (creating if necessary) the SQLite database at config.Path and
// runs AutoMigrate against it. Migration is idempotent: calling New again
// against the same file, already on the current schema, is a no-op, and
// starting against an older schema upgrades it in place without data loss.
// New is callable from both the relay process and a freestanding Admin API
// process pointed at the same file.
func New(config *Config) (*GORMStore, error) {
	if config == nil {
		config = &Config{}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log store configuration: %w", err)
	}

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log store directory: %w", err)
		}
	}

	// journal_mode(WAL): write-ahead logging so the Admin API's read paths
	// don't contend with the relay's single writer connection.
	// busy_timeout(5000): wait up to 5 seconds when the database is locked.
	dsn := config.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	dialector := sqlite.Open(dsn)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open log store: %w", err)
	}

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate log store schema: %w", err)
	}

	return &GORMStore{db: db, config: config}, nil
}

// DB returns the underlying GORM handle, for direct queries outside the
// store's own methods (tests use it this way).
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

// Path returns the configured database file path.
func (s *GORMStore) Path() string {
	return s.config.Path
}

// Close releases the underlying database connection.
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isUniqueConstraintError checks if the error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// convertNotFoundError converts gorm.ErrRecordNotFound to the provided domain error.
func convertNotFoundError(err error, notFoundErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr
	}
	return err
}
