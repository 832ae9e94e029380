package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "stockctl",
		Short: "Offline tooling for the stock pipeline",
		Long: `stockctl runs the stock normalization pipeline against exported files:
it normalizes raw records, reports data quality problems, renders workbooks
and merges seed files into MongoDB.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		log, err := logger.New(logLevel)
		if err != nil {
			return err
		}
		zap.ReplaceGlobals(log)
		return nil
	}

	cmd.AddCommand(normalizeCmd())
	cmd.AddCommand(diagnoseCmd())
	cmd.AddCommand(exportCmd())
	cmd.AddCommand(syncCmd())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	_ = zap.L().Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
