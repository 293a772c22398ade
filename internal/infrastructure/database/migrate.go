package database

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending migrations. An empty migrationsPath uses
// the migrations embedded in the binary.
func RunMigrations(dsn string, migrationsPath string) error {
	m, err := newMigrate(dsn, migrationsPath)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Printf("✅ Migraciones aplicadas (version=%d, dirty=%v)", version, dirty)
	return nil
}

func newMigrate(dsn, migrationsPath string) (*migrate.Migrate, error) {
	if migrationsPath != "" {
		return migrate.New(fmt.Sprintf("file://%s", migrationsPath), dsn)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", src, dsn)
}
