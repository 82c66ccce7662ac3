// Package main is the entry point for the flow CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Flow/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	registerQuitHandler()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flow",
		Short:         "Unidirectional data flow demos: store + reducer, observable services",
		Version:       version,
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("config", "", "path to flow.toml (default: search upward from the working directory)")

	root.AddCommand(
		counterCmd(),
		intervalCmd(),
		newsCmd(),
		dashboardCmd(),
		journalCmd(),
		initCmd(),
	)

	return root
}

// loadConfig loads and validates the configuration named by --config, or the
// nearest flow.toml when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
