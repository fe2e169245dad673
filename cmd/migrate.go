package main

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/config"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/migrations"
)

// MigrateCmd применяет миграции схемы слотов
type MigrateCmd struct {
	Status bool `help:"Only print the current schema version."`
}

func (c *MigrateCmd) Run(appCtx *Context) error {
	cfg, log := appCtx.Config, appCtx.Log
	if cfg.DataSource != config.DataSourcePersistent {
		return fmt.Errorf("migrate requires data_source = %q, got %q", config.DataSourcePersistent, cfg.DataSource)
	}

	ctx := context.Background()

	db, dialect, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := migrations.NewRunner(db, dialect, log)
	if err != nil {
		return err
	}

	if !c.Status {
		applied, err := runner.Apply(ctx)
		if err != nil {
			return err
		}
		log.Info("Migrations applied: %d", applied)
	}

	version, err := runner.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("schema version: %d (%s)\n", version, dialect)
	return nil
}
