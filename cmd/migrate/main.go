package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"appointments-service/internal/config"
	"appointments-service/internal/storage/postgres"
	"appointments-service/pkg/sl"
)

// Usage:
//
//	migrate            apply pending migrations
//	migrate down       revert the last migration
//	migrate force <v>  mark the schema as version v
func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to open storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() { _ = storage.Close() }()

	if err := run(storage, os.Args[1:]); err != nil {
		log.Error("Migration failed", sl.Err(err))
		os.Exit(1)
	}

	log.Info("Migrations complete")
}

func run(storage *postgres.Storage, args []string) error {
	if len(args) == 0 {
		return storage.Migrate()
	}

	switch args[0] {
	case "up":
		return storage.Migrate()
	case "down":
		return storage.Rollback()
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		return storage.ForceVersion(version)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
