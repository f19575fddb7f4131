// Command migrate applies or rolls back the embedded database schema.
//
// Usage:
//
//	migrate [up|down|reset|status]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"

	"github.com/plantrent/plantrent/internal/migrations"
)

type migrateConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := run(command); err != nil {
		logger.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
	logger.Info("migration finished", "command", command)
}

func run(command string) error {
	cfg := migrateConfig{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	action, err := lookup(command)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := migrations.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return action(ctx, db)
}

func lookup(command string) (func(context.Context, *sql.DB) error, error) {
	switch command {
	case "up":
		return migrations.Up, nil
	case "down":
		return migrations.Down, nil
	case "reset":
		return migrations.Reset, nil
	case "status":
		return migrations.Status, nil
	default:
		return nil, fmt.Errorf("unknown command %q: want up, down, reset or status", command)
	}
}
