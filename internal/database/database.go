// Package database wraps GORM with URL-based driver selection and a
// generic repository that maps between domain values and database models.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

var errUnsupportedDriver = errors.New("unsupported database driver")

// Database wraps a GORM connection pool together with its dialect.
type Database struct {
	db      *gorm.DB
	dialect string
}

// NewDatabase opens a connection for the given URL and verifies it with a
// ping. Supported schemes: sqlite:///path/to.db, postgres:// and
// postgresql://.
func NewDatabase(ctx context.Context, rawURL string) (Database, error) {
	dialector, err := parseDialector(rawURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse database url: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: slogGormLogger{},
	})
	if err != nil {
		return Database{}, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return Database{}, fmt.Errorf("access connection pool: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return Database{}, fmt.Errorf("ping database: %w", err)
	}

	return Database{db: db, dialect: dialector.Name()}, nil
}

// parseDialector picks the GORM dialector for a database URL.
func parseDialector(rawURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(rawURL, "sqlite://"):
		path := strings.TrimPrefix(rawURL, "sqlite://")
		// sqlite:///:memory: addresses the transient in-memory database.
		if strings.HasPrefix(path, "/:memory:") {
			path = strings.TrimPrefix(path, "/")
		}
		return sqlite.Open(path), nil
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return postgres.Open(rawURL), nil
	default:
		return nil, errUnsupportedDriver
	}
}

// Session returns a context-scoped GORM handle for one logical operation.
func (d Database) Session(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// GORM returns the underlying GORM handle, for migrations and schema work.
func (d Database) GORM() *gorm.DB {
	return d.db
}

// IsSQLite reports whether the connection uses the SQLite driver.
func (d Database) IsSQLite() bool {
	return d.dialect == dialectSQLite
}

// IsPostgres reports whether the connection uses the PostgreSQL driver.
func (d Database) IsPostgres() bool {
	return d.dialect == dialectPostgres
}

// ConfigurePool applies connection pool limits.
func (d Database) ConfigurePool(maxOpen, maxIdle int, maxLifetime time.Duration) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("configure pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)
	return nil
}

// Close closes the underlying connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return sqlDB.Close()
}
