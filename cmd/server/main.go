package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	emailPkg "gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/imagestore"
	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/app"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// shutdownGrace bounds how long in-flight requests get on SIGTERM.
const shutdownGrace = 15 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs the process-wide slog handler: JSON in production, text otherwise.
func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func newZapLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	logger, err := newZapLogger(cfg)
	if err != nil {
		return fmt.Errorf("partner logger: %w", err)
	}
	defer logger.Sync()

	collector := perf.NewCollector(perf.DefaultRingSize)
	deps := app.Wire(storage.NewTimedDB(db, collector, cfg.SlowQuery), app.Options{
		Sender:  newSender(cfg),
		Images:  newImages(cfg),
		Logger:  logger,
		Perf:    collector,
		ReplyTo: cfg.ReplyTo,
	})

	if err := orchestrators.ExecuteSeedAdmin(ctx, deps.Accounts, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if _, err := orchestrators.ExecuteSeedCatalog(ctx, deps.ProductStore); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if cfg.SeedSamples {
		if _, err := orchestrators.ExecuteSeedClasses(ctx, deps.ClassStore); err != nil {
			return fmt.Errorf("seed classes: %w", err)
		}
		if _, err := orchestrators.ExecuteSeedMembers(ctx, deps.MemberStore); err != nil {
			return fmt.Errorf("seed members: %w", err)
		}
	}

	workerDone := orchestrators.StartBackgroundWorker(ctx, deps.Processor, cfg.OutboxEvery)

	key, err := csrfKey(cfg)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewMux(ctx, deps, web.Options{
			StaticDir:   "static",
			CSRFKey:     key,
			Secure:      cfg.IsProduction(),
			SlowRequest: cfg.SlowRequest,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("server_stopping")
		shutdownCtx, release := context.WithTimeout(context.Background(), shutdownGrace)
		defer release()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	cancel()
	<-workerDone
	return nil
}

func newSender(cfg config.Config) emailPkg.Sender {
	if cfg.ResendKey != "" {
		slog.Info("email_sender", "provider", "resend")
		return emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
	}
	if cfg.IsProduction() {
		slog.Warn("email_sender", "provider", "noop", "note", "GYMDESK_RESEND_KEY is not set; receipts are not delivered")
	}
	return emailPkg.NewNoopSender()
}

func newImages(cfg config.Config) imagestore.Uploader {
	if cfg.CloudinaryURL == "" {
		return imagestore.Disabled{}
	}
	cld, err := imagestore.NewCloudinary(cfg.CloudinaryURL)
	if err != nil {
		slog.Error("image_store_disabled", "error", err)
		return imagestore.Disabled{}
	}
	return cld
}

// csrfKey returns the configured key, or a random per-process key outside production.
// Validate already rejects a short key in production.
func csrfKey(cfg config.Config) ([]byte, error) {
	if len(cfg.CSRFKey) >= 32 {
		return []byte(cfg.CSRFKey)[:32], nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	slog.Warn("csrf_key_generated", "note", "form tokens reset on restart")
	return key, nil
}
