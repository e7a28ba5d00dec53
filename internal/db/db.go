// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/unclebandit/crm-backend/internal/config"
)

//go:embed migrations.sql
var migrationSQL string

// Open connects to PostgreSQL using the DB_* settings and verifies the
// connection.
func Open(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	log.Println("DB_USER:", cfg.User)
	log.Println("DB_NAME:", cfg.Name)
	log.Println("DB_HOST:", cfg.Host)

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	log.Println("✅ Connected to database")
	return db, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, migrationSQL); err != nil {
		return fmt.Errorf("failed running migrations: %w", err)
	}
	return nil
}
