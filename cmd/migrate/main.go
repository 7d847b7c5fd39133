package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/entegrahub/webhook-gateway/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

/* Schema migrations run here, outside the request path, exactly once
 * The gateway process itself never executes DDL: mixing schema management
 * with request handling is a reliability hazard in a concurrent gateway
 */

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required to run migrations")
	}

	m, err := migrate.New("file://migrations/postgresql", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	fmt.Println("migrations completed")
	return nil
}
