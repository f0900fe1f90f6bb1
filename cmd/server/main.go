package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"laborcontract/internal/app/server"
	"laborcontract/internal/platform/config"
	"laborcontract/internal/platform/logging"
)

var (
	cfg        config.Config
	verbose    bool
	restoreLog func()
)

var rootCmd = &cobra.Command{
	Use:   "laborcontract",
	Short: "Labor contract service",
	Long: `Issues and tracks Korean standard labor contracts.

Run without a subcommand to start the HTTP server. Configuration comes
from the environment, optionally seeded from a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err := logging.New(cfg.Environment, level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		restoreLog = logging.Install(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if restoreLog != nil {
			restoreLog()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, migrateCmd, allowanceCmd, floorCmd, tokenCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		zap.L().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
