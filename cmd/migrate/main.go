// Command migrate applies or rolls back versioned SQL migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate/main.go <up|down>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "down":
		if err := database.RollbackLastMigration(ctx, db); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Println("rolled back last migration")
	default:
		return usage()
	}

	return nil
}
