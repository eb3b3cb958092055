package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"parcelpoint-web/internal/config"
	"parcelpoint-web/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	cfg      *config.Config
	provider storage.Provider
)

var rootCmd = &cobra.Command{
	Use:   "parcelpoint",
	Short: "ParcelPoint public website and locker booking",
	Long:  `Serves the ParcelPoint website and booking wizard, and provides tools for inspecting lockers, payments and messages.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to load .env file", "error", err)
		}

		var err error
		if cfgFile != "" {
			cfg, err = config.LoadConfig(cfgFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		config.Cfg = cfg

		// Storage is optional. The site works without it, only audit and
		// message history are lost.
		provider, err = storage.NewProvider(&cfg.Storage)
		if err != nil {
			slog.Warn("Storage not available", "error", err)
			provider = nil
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if provider != nil {
			provider.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// requireStorage exits when a command needs the database and none is configured.
func requireStorage() storage.Provider {
	if provider == nil {
		fmt.Fprintln(os.Stderr, "Storage is not configured")
		os.Exit(1)
	}
	return provider
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./instance/config.yaml)")
}
