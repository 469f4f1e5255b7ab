package postgres

import (
	"embed"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every pending migration in migrations/ against dsn.
// ErrNoChange is treated as success. dsn's scheme is rewritten to pgx5://
// so golang-migrate picks up its pgx/v5-backed driver rather than lib/pq,
// keeping the migration path on the same driver stack as the rest of this
// package.
func Migrate(dsn string) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("reading embedded migrations: %w", err)
	}

	migrateDSN := rewriteScheme(dsn, "pgx5")

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateDSN)
	if err != nil {
		return fmt.Errorf("constructing migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func rewriteScheme(dsn, scheme string) string {
	if idx := strings.Index(dsn, "://"); idx >= 0 {
		return scheme + dsn[idx:]
	}
	return dsn
}
