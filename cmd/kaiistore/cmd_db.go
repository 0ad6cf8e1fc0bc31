package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kaii_store/internal/config"
	"github.com/Skotchmaster/kaii_store/internal/db"
	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/seed"
)

// boot loads and validates configuration, installs the logger and opens the
// database.
func boot() (config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, nil, err
	}

	logger := logging.New(cfg.LogLevel).With("service", "kaiistore")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	gdb, err := db.Open(ctx, db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, gdb, nil
}

func adminSeed(cfg config.Config) seed.Admin {
	return seed.Admin{Email: cfg.AdminEmail, Name: cfg.AdminName, Password: cfg.AdminPassword}
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, gdb, err := boot()
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.Migrate(gdb); err != nil {
			return err
		}
		logger.Info("migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the admin account and default payment method",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, gdb, err := boot()
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.Migrate(gdb); err != nil {
			return err
		}
		ctx := logging.IntoContext(cmd.Context(), logger)
		return seed.RunAll(ctx, gdb, seed.Seeders(adminSeed(cfg)))
	},
}
