package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque/internal/config"
	"github.com/mamadbah2/estoque/internal/repository/mongodb"
	"github.com/mamadbah2/estoque/internal/service/inventory"
)

func syncCmd() *cobra.Command {
	var (
		envFile string
		sheet   string
	)

	cmd := &cobra.Command{
		Use:   "sync <file>",
		Short: "Merge a seed file into the MongoDB stock collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close(ctx) }()

			svc, err := inventory.NewService(repo, repo, inventory.Config{
				NearExpirationDays: cfg.Inventory.NearExpirationDays,
				LowStockThreshold:  cfg.Inventory.LowStockThreshold,
				ViewCacheSize:      cfg.Inventory.ViewCacheSize,
			}, zap.L().Named("svc.inventory"))
			if err != nil {
				return err
			}

			result, err := svc.Sync(ctx, fileSource{path: args[0], sheet: sheet})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d, updated %d, skipped %d (generation %d)\n",
				result.Added, result.Updated, result.Skipped, result.Generation)
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env", "", "env file with the MongoDB settings")
	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet name (default: first sheet)")
	return cmd
}
