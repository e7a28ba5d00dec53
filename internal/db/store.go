package db

import (
	"context"
	"fmt"

	"github.com/unclebandit/crm-backend/internal/config"
	"github.com/unclebandit/crm-backend/internal/repository"
	"github.com/unclebandit/crm-backend/internal/repository/gormstore"
)

// OpenStore opens the database selected by DB_DRIVER and returns its
// repositories with the schema in place.
func OpenStore(ctx context.Context, cfg config.Database) (*repository.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		gdb, err := gormstore.Open(cfg.Path, cfg.Debug)
		if err != nil {
			return nil, err
		}
		return gormstore.NewStore(gdb), nil
	case config.DriverPostgres:
		sqlDB, err := Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return repository.NewPostgresStore(sqlDB), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}
