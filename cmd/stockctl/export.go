package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/estoque/internal/domain/models"
	"github.com/mamadbah2/estoque/internal/repository/xlsx"
	"github.com/mamadbah2/estoque/internal/stock"
)

func exportCmd() *cobra.Command {
	var (
		sheet string
		query = models.DefaultQueryConfig()
		sort  string
	)

	cmd := &cobra.Command{
		Use:   "export <file> <output.xlsx>",
		Short: "Write the filtered, searched and sorted stock view to a workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := fileSource{path: args[0], sheet: sheet}.FetchRaw(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now()
			query.SortKey = models.SortKey(sort)
			items := stock.DeriveView(stock.Transform(records, now), query, now)

			out, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[1], err)
			}
			if err := xlsx.WriteItems(out, items); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d items written to %s\n", len(items), args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet name (default: first sheet)")
	cmd.Flags().StringVar(&query.CategoryFilter, "filter", models.FilterAll, "category or meta filter")
	cmd.Flags().StringVar(&query.SearchTerm, "search", "", "name or id substring")
	cmd.Flags().StringVar(&sort, "sort", string(models.SortByName), "sort key (name, quantity, expirationDate)")
	return cmd
}
