package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"appointments-service/migrations"
)

// Migrate applies every pending embedded migration.
func (s *Storage) Migrate() error {
	const op = "storage.postgres.Migrate"

	m, err := s.migrator()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ForceVersion marks the schema as being at version without running anything.
func (s *Storage) ForceVersion(version int) error {
	const op = "storage.postgres.ForceVersion"

	m, err := s.migrator()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Force(version); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Rollback reverts the last applied migration.
func (s *Storage) Rollback() error {
	const op = "storage.postgres.Rollback"

	m, err := s.migrator()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) migrator() (*migrate.Migrate, error) {
	dbDriver, err := migratepg.WithInstance(s.db, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("db driver: %w", err)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return m, nil
}
