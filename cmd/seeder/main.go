//cmd/seeder/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/db"
	"github.com/unclebandit/crm-backend/internal/repository/gormstore"
)

var seedFiles = []string{
	"seed/customers.sql",
	"seed/products.sql",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}

	ctx := context.Background()
	sqlDB, err := open(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	if err := seed(ctx, sqlDB, seedFiles); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Database seeding completed successfully!")
}

// open returns a migrated database for either driver.
func open(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	if cfg.Driver == config.DriverSQLite {
		gdb, err := gormstore.Open(cfg.Path, cfg.Debug)
		if err != nil {
			return nil, err
		}
		return gdb.DB()
	}

	sqlDB, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func seed(ctx context.Context, sqlDB *sql.DB, files []string) error {
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if _, err := sqlDB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", file, err)
		}
		fmt.Printf("Seeded: %s\n", file)
	}
	return nil
}
