// Package main implements ironledger-cli, an offline tool for inspecting
// and maintaining an IronLedger data store.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/claude/ironledger/internal/config"
	"github.com/claude/ironledger/internal/ledger"
	"github.com/claude/ironledger/internal/storage"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "ironledger-cli",
	Short:         "Inspect and maintain an IronLedger training log",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log storage activity to stderr")
}

func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// withStore opens the configured storage, loads the app state and runs fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store *ledger.Store) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kv, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer kv.Close()

	log := logger()
	store := ledger.New(ctx, kv, ledger.Options{
		Key:       cfg.Storage.Key,
		Templates: config.SeedTemplates(cfg.TemplatesFile, log),
		Log:       log,
	})
	return fn(ctx, store)
}
