package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/kaii_store/internal/config"
	"github.com/Skotchmaster/kaii_store/internal/db"
	"github.com/Skotchmaster/kaii_store/internal/httpserver"
	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/metrics"
	"github.com/Skotchmaster/kaii_store/internal/middleware/auth"
	"github.com/Skotchmaster/kaii_store/internal/mykafka"
	"github.com/Skotchmaster/kaii_store/internal/repo"
	"github.com/Skotchmaster/kaii_store/internal/seed"
	"github.com/Skotchmaster/kaii_store/internal/service"
	"github.com/Skotchmaster/kaii_store/internal/storage"
	"github.com/Skotchmaster/kaii_store/internal/upload"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, seed and start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, gdb, err := boot()
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(gdb); err != nil {
				logger.Error("db close error", "error", err)
			}
		}()

		ctx := logging.IntoContext(context.Background(), logger)

		if err := db.Migrate(gdb); err != nil {
			return err
		}
		if err := seed.RunAll(ctx, gdb, seed.Seeders(adminSeed(cfg))); err != nil {
			return err
		}

		disk, err := storage.New(ctx, cfg)
		if err != nil {
			return err
		}

		events, err := mykafka.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer func() {
			if err := events.Close(); err != nil {
				logger.Error("kafka close error", "error", err)
			}
		}()

		m := metrics.New()
		r := repo.New(gdb)

		deps := &httpserver.Deps{
			DB: gdb,
			AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
				Repo:      r,
				JWTSecret: cfg.JWTSecret,
				TokenTTL:  cfg.TokenTTL,
				Events:    events,
			}},
			CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: events}},
			OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{
				Repo:    r,
				Disk:    disk,
				Policy:  upload.ProofPolicy{MaxBytes: cfg.UploadMaxBytes, SniffContent: cfg.UploadSniffContent},
				Events:  events,
				Metrics: m,
			}},
			Authenticator:  auth.NewAuthenticator(cfg.JWTSecret),
			Metrics:        m,
			UploadMaxBytes: cfg.UploadMaxBytes,
			StaticDir:      cfg.StaticDir,
		}
		if cfg.StorageDriver == config.StorageLocal {
			deps.UploadDir = cfg.UploadDir
		}

		e := httpserver.NewEcho(logger, deps)

		srv := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           e,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			ReadHeaderTimeout: 3 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		serverErr := make(chan error, 1)
		go func() {
			logger.Info("http server listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "storage", cfg.StorageDriver)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErr:
			if err != nil {
				return err
			}
		case <-stop:
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
