package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"bookstore/internal/config"
	"bookstore/internal/platform/logger"
	"bookstore/internal/platform/postgres"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg := config.Load()
	log := logger.New(cfg.AppName+"-migrate", cfg.Env)
	goose.SetLogger(log)

	var db *sql.DB
	if *command != "create" {
		pool, err := postgres.NewPool(context.Background(), cfg.DBDSN, 2, 0, cfg.DBMaxConnLife)
		if err != nil {
			log.WithField("dsn", postgres.RedactDSN(cfg.DBDSN)).Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		db = stdlib.OpenDBFromPool(pool)
		defer db.Close()
	}

	if err := run(db, cfg.MigrationsDir, *command, *name, log); err != nil {
		log.Fatal(err)
	}
}

func run(db *sql.DB, dir, command, name string, log logrus.FieldLogger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Info("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("rollback migrations: %w", err)
		}
		log.Info("Migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("check migration status: %w", err)
		}
	case "create":
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		log.WithField("name", name).Info("Migration created")
	default:
		return fmt.Errorf("unknown command: %s. Use: up, down, status, create", command)
	}
	return nil
}
