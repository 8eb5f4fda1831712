package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

// NewMigrator opens a database/sql handle through the pgx stdlib driver and
// binds it to the file migrations in dir. The returned func releases both.
func NewMigrator(dsn, dir string) (*migrate.Migrate, func(), error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", dir), "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	closeFn := func() {
		_, _ = m.Close()
		_ = db.Close()
	}
	return m, closeFn, nil
}

// RunMigrations applies every pending up migration.
func RunMigrations(dsn, dir string, logger *logrus.Logger) error {
	m, closeFn, err := NewMigrator(dsn, dir)
	if err != nil {
		return err
	}
	defer closeFn()

	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
