package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"church_roster/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// Connect opens the configured store, verifies it and applies migrations.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.DBDriver == config.DriverSQLite {
		if err := ensureDir(cfg.DBPath); err != nil {
			return nil, err
		}
	}
	db, err := Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("Successfully connected to database")
	return db, nil
}

func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	switch driver {
	case config.DriverSQLite:
		// One connection keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
		if dsn != ":memory:" {
			if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
				db.Close()
				return nil, fmt.Errorf("error enabling WAL: %w", err)
			}
		}
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	return db, nil
}

// Migrate runs every embedded migration for driver in file-name order.
// Each migration is idempotent.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	dir := path.Join("migrations", driver)
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("no migrations for driver %q: %w", driver, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		log.Debug().Str("file", name).Msg("migration")
		sqlBytes, err := migrationsFS.ReadFile(path.Join(dir, name))
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

func Close(db *sql.DB) {
	if db != nil {
		db.Close()
		log.Info().Msg("Database connection closed.")
	}
}

func ensureDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := os.MkdirAll(dbDir, 0o700); err != nil {
			return fmt.Errorf("failed to create db dir %s: %w", dbDir, err)
		}
	}
	return nil
}
