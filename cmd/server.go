package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	app "parcelpoint-web/internal"
	"parcelpoint-web/internal/api"
	"parcelpoint-web/internal/booking"
	"parcelpoint-web/internal/cache"
	"parcelpoint-web/internal/catalog"
	"parcelpoint-web/internal/config"
	"parcelpoint-web/internal/email"
	"parcelpoint-web/internal/nonce"
	"parcelpoint-web/internal/routes"
	"parcelpoint-web/internal/storage"
	"parcelpoint-web/internal/utils"

	"github.com/spf13/cobra"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ParcelPoint web server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		initLogger(cfg)
		if err := ServerMain(ctx, provider); err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	},
}

// Initialize logger
func initLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		println("Invalid log level in config, defaulting to INFO")
	}
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
	return logger
}

// newBookingService wires the API client, overview cache and payment audit.
// The returned cache must be closed by the caller when not nil.
func newBookingService(cfg *config.Config, storageProvider storage.Provider) (*booking.Service, cache.Cache, error) {
	client := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Version: cfg.API.Version,
		Timeout: cfg.API.TimeoutDuration(),
	})

	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	opts := []booking.ServiceOption{
		booking.WithCache(c, time.Duration(cfg.Cache.TTL)*time.Second),
	}
	if storageProvider != nil {
		opts = append(opts, booking.WithRecorder(storageProvider))
	}
	return booking.NewService(client, opts...), c, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile == "" {
		return catalog.Default()
	}
	slog.Info("Loading location catalog", "file", cfg.CatalogFile)
	return catalog.Load(cfg.CatalogFile)
}

func ServerMain(ctx context.Context, storageProvider storage.Provider) error {
	if config.Cfg == nil {
		panic("Config not initialized.")
	}

	if err := nonce.InitNonceStore(config.Cfg, storageProvider); err != nil {
		return err
	}
	defer nonce.Store.Close()

	svc, overviewCache, err := newBookingService(config.Cfg, storageProvider)
	if err != nil {
		return fmt.Errorf("failed to initialize booking service: %w", err)
	}
	if overviewCache != nil {
		defer overviewCache.Close()
	}

	locations, err := loadCatalog(config.Cfg)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	deps := &routes.Deps{
		Booking:      svc,
		Catalog:      locations,
		Storage:      storageProvider,
		SupportInbox: config.Cfg.Email.To,
	}

	mailer, err := email.NewClient(config.Cfg.Email)
	if err != nil {
		slog.Warn("Email disabled", "error", err)
	} else if mailer.Enabled() {
		deps.Mailer = mailer
	} else {
		slog.Info("SMTP host not set, form submissions are only stored")
	}

	handler, err := app.HTTPServer(deps)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	srv := &http.Server{
		Addr:              config.Cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting ParcelPoint web server", "addr", srv.Addr, "version", utils.GetVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
