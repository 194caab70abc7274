package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations applies every pending migration for dialect.
//
// SQLite migrates through db itself so in-memory databases see the schema.
// Postgres uses a separate connection to dsn, which the driver closes.
func RunMigrations(db *sql.DB, dialect Dialect, dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	var driver database.Driver
	switch dialect {
	case SQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
		if err != nil {
			src.Close()
			return fmt.Errorf("create sqlite driver: %w", err)
		}
	case Postgres:
		migrateDB, err := sql.Open("pgx", dsn)
		if err != nil {
			src.Close()
			return fmt.Errorf("open migration database: %w", err)
		}
		driver, err = migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
		if err != nil {
			migrateDB.Close()
			src.Close()
			return fmt.Errorf("create pgx driver: %w", err)
		}
	default:
		src.Close()
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dialect), driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	if dialect == SQLite {
		// m.Close would also close the shared handle
		return src.Close()
	}
	srcErr, dbErr := m.Close()
	return errors.Join(srcErr, dbErr)
}
