package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"qa-service/logging"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dotenvPath string
	)

	cmd := &cobra.Command{
		Use:           "qa-server",
		Short:         "Serve the in-memory questions and answers API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath, dotenvPath, cmd.Flags())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "config error: %v\n", err)
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file (optional)")
	cmd.Flags().StringVar(&dotenvPath, "env-file", ".env", "path to a .env file loaded before reading the environment (optional)")
	cmd.Flags().String("listen-addr", "", "address to listen on (overrides LISTEN_ADDR)")
	cmd.Flags().String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	cmd.Flags().String("seed-file", "", "JSON or YAML file with the initial questions (overrides SEED_FILE)")

	return cmd
}

func run(parent context.Context, cfg config) error {
	if parent == nil {
		parent = context.Background()
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	lggr, err := logging.New(level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = lggr.Sync() }()

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg, lggr)
	if err != nil {
		// seed corrompido ou backend de estatísticas inacessível: não sobe.
		lggr.Errorw("startup failed", "error", err)
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			lggr.Warnw("failed to close stats backend", "error", err)
		}
	}()

	lggr.Infow("config",
		"listen_addr", cfg.ListenAddr,
		"concurrency_max", cfg.Concurrency.Max,
		"concurrency_timeout", cfg.Concurrency.Timeout,
		"cors_allowed_origins", cfg.CORS.AllowedOrigins,
		"stats_enabled", cfg.Stats.Enabled,
		"stats_backend", cfg.Stats.Backend,
		"stats_track_keys", cfg.Stats.TrackKeys,
	)

	return serve(ctx, cfg, a.handler, lggr)
}
