package main

import (
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/jyotir-aditya/fullstackAssignment/config"
	pginfra "github.com/jyotir-aditya/fullstackAssignment/internal/infrastructure/postgres"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/helpers"
)

// usage: migrate [-steps N] up|down|version
func main() {
	_ = godotenv.Load()

	steps := flag.Int("steps", 0, "number of migrations to apply (0 = all for up, 1 for down)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		helpers.NewLogger("migrate", "production").WithError(err).Fatal("invalid configuration")
	}
	logger := helpers.NewLogger(cfg.AppName+"-migrate", cfg.Env)
	if cfg.UseMemoryStorage() {
		logger.Fatal("STORAGE_DRIVER=memory has no schema to migrate")
	}

	m, closeFn, err := pginfra.NewMigrator(cfg.DatabaseURL(), cfg.MigrationsDir)
	if err != nil {
		logger.WithError(err).Fatal("init migrator")
	}
	defer closeFn()

	cmd := flag.Arg(0)
	switch cmd {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		n := *steps
		if n <= 0 {
			n = 1
		}
		err = m.Steps(-n)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			logger.WithError(verr).Fatal("read version")
		}
		logger.WithField("version", v).WithField("dirty", dirty).Info("schema version")
		return
	default:
		logger.Errorf("unknown command %q; expected up, down or version", cmd)
		closeFn()
		os.Exit(2)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return
	}
	if err != nil {
		logger.WithError(err).Fatalf("migrate %s failed", cmd)
	}
	logger.Infof("migrate %s done", cmd)
}
