package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/drawjoy/cliparse"
)

var flags cliparse.Flags

var rootCmd = &cobra.Command{
	Use:           "drawjoy",
	Short:         "Secret Santa groups with constrained draws",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Running without a subcommand serves the API
	RunE: runServe,
}

func init() {
	cliparse.BindFlags(rootCmd.PersistentFlags(), &flags)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("drawjoy failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, resolves flags and installs the default logger.
func loadConfig() (cliparse.Config, error) {
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		return cliparse.Config{}, err
	}

	cfg, err := cliparse.Resolve(flags)
	if err != nil {
		return cliparse.Config{}, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}
