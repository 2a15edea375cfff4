package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	constants "github.com/schoolattendance/backend/internal/constants"
	"github.com/schoolattendance/backend/internal/logger"
	"github.com/schoolattendance/backend/migrations"
	"github.com/schoolattendance/backend/pkg/migrate"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "up", "down", "steps", "version", "status":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err := run(context.Background(), command, os.Args[2:]); err != nil {
		logger.LogError("Migration command failed", err, "command", command)
		os.Exit(1)
	}
}

// run owns the migrator so its deferred Close runs before main exits.
func run(ctx context.Context, command string, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	connectionString := os.Getenv(constants.DATABASE_URL)
	if connectionString == "" {
		return fmt.Errorf("%s environment variable is not set", constants.DATABASE_URL)
	}

	migrator, err := migrate.NewMigrator(ctx, connectionString, migrations.FS)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close(ctx)

	switch command {
	case "up":
		return handleUp(ctx, migrator)
	case "down":
		return handleDown(ctx, migrator)
	case "steps":
		return handleSteps(ctx, migrator, args)
	case "version", "status":
		return handleVersion(ctx, migrator)
	}
	return fmt.Errorf("unknown command %q", command)
}

func handleUp(ctx context.Context, migrator *migrate.Migrator) error {
	logger.LogInfo("Applying migrations", "latest", migrator.Latest())
	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.LogInfo("Migrations applied")
	return nil
}

func handleDown(ctx context.Context, migrator *migrate.Migrator) error {
	logger.LogInfo("Rolling back last migration")
	if err := migrator.Down(ctx); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	logger.LogInfo("Migration rolled back")
	return nil
}

func handleSteps(ctx context.Context, migrator *migrate.Migrator, args []string) error {
	if len(args) < 1 {
		return errors.New("'steps' command requires a number argument")
	}

	steps, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid number of steps %q: %w", args[0], err)
	}

	if err := migrator.Steps(ctx, steps); err != nil {
		return fmt.Errorf("failed to execute %d steps: %w", steps, err)
	}
	return nil
}

func handleVersion(ctx context.Context, migrator *migrate.Migrator) error {
	version, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if version == migrate.NoVersion {
		fmt.Printf("No migrations applied (latest available: %d)\n", migrator.Latest())
		return nil
	}
	fmt.Printf("Current migration version: %d (latest available: %d)\n", version, migrator.Latest())
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stdout, `Usage: migrate <command>

Commands:
  up                  Apply all pending migrations
  down                Roll back the last migration
  steps <number>      Apply or roll back a number of migrations
                      (positive for up, negative for down)
  version, status     Show current migration version
  help                Show this help message

Environment Variables:
  %s        Database connection URL (also read from .env)

Examples:
  migrate up
  migrate steps -1
  migrate version
`, constants.DATABASE_URL)
}
