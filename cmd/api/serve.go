package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"peptide-tracker/internal/adapters/auth/remote"
	"peptide-tracker/internal/reminders"
	"peptide-tracker/internal/router"
)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scanner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
				n, err := db.Migrate(ctx)
				if err != nil {
					return err
				}
				log.Info("database ready", map[string]any{"driver": cfg.Storage.Driver, "migrations_applied": n})
			}

			opts := router.Options{
				Logger:  log,
				DB:      db,
				Storage: cfg.Storage,
				Charts:  cfg.Charts,
			}
			if cfg.Auth.BaseURL != "" {
				v, err := remote.NewVerifier(remote.Config{
					BaseURL: cfg.Auth.BaseURL,
					APIKey:  cfg.Auth.APIKey,
					Timeout: cfg.Auth.Timeout,
				})
				if err != nil {
					return err
				}
				opts.AuthVerifier = v
			} else {
				log.Warn("no identity service configured, trusting X-Debug-User-ID", nil)
			}

			svcs, err := router.NewServices(ctx, opts)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:         cfg.Addr(),
				Handler:      router.NewRouter(opts, svcs),
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("starting server", map[string]any{"addr": srv.Addr})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
				defer cancel()
				log.Info("shutting down", nil)
				return srv.Shutdown(shutdownCtx)
			})
			if cfg.Reminders.Enabled {
				scanner := reminders.NewScanner(svcs.Protocols, svcs.Doses, log, cfg.Reminders.Interval)
				g.Go(func() error { return scanner.Run(gctx) })
			}

			return g.Wait()
		},
	}
}
