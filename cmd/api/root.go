package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"peptide-tracker/internal/adapters/storage/sqlstore"
	"peptide-tracker/internal/platform/config"
	"peptide-tracker/internal/platform/logger"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "peptide-tracker",
		Short:         "Peptide dose tracking API",
		Long:          "Dose log, protocols, wellness journal and estimated concentration charts behind a JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: $CONFIG_FILE)")

	load := func() (config.Config, error) {
		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_FILE")
		}
		return config.Load(path)
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newSimulateCmd(),
	)
	return root
}

type configLoader func() (config.Config, error)

func newLogger(cfg config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: logger.ParseFormat(cfg.Logging.Format),
		App:    cfg.App,
	})
}

// openDB returns nil for the memory driver.
func openDB(ctx context.Context, cfg config.Config) (*sqlstore.DB, error) {
	if cfg.Storage.Driver == "memory" {
		return nil, nil
	}
	d, err := sqlstore.DialectFor(cfg.Storage.Driver)
	if err != nil {
		return nil, err
	}
	dsn := cfg.Storage.DSN
	if d == sqlstore.SQLite {
		dsn = cfg.Storage.SQLitePath
	}
	return sqlstore.Open(ctx, d, dsn)
}
