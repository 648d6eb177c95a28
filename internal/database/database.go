// Package database provides the GORM-backed connection, transaction, and
// generic repository layer for the query history.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/visearch/visearch/internal/log"
)

// ErrUnsupportedDriver indicates the database URL uses an unsupported driver.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Database wraps the GORM handle the history store runs on.
type Database struct {
	db *gorm.DB
}

// NewDatabase opens a connection from a URL and verifies it with a ping.
// SQLite URLs look like sqlite:///path/to/file.db; PostgreSQL URLs use the
// postgres:// or postgresql:// scheme. SQL issued through the connection is
// traced on the given logger at debug level.
func NewDatabase(ctx context.Context, url string, logger *log.Logger) (Database, error) {
	dialector, err := parseDialector(url)
	if err != nil {
		return Database{}, fmt.Errorf("parse database url: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: queryLogger{logger: logger}})
	if err != nil {
		return Database{}, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return Database{}, fmt.Errorf("get underlying db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return Database{}, fmt.Errorf("ping database: %w", err)
	}

	return Database{db: db}, nil
}

// Session returns a GORM session bound to the given context.
func (d Database) Session(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// Close closes the underlying connection.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying db: %w", err)
	}
	return sqlDB.Close()
}

func parseDialector(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "sqlite:///"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite:///")), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}
