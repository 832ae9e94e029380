package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/estoque/internal/stock"
)

func normalizeCmd() *cobra.Command {
	var (
		sheet  string
		window int
	)

	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Print the normalized stock items of a file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := fileSource{path: args[0], sheet: sheet}.FetchRaw(cmd.Context())
			if err != nil {
				return err
			}

			transformer := stock.NewTransformer(stock.WithClock(time.Now), stock.WithNearExpirationDays(window))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(transformer.Transform(records))
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet name (default: first sheet)")
	cmd.Flags().IntVar(&window, "near-days", stock.DefaultNearExpirationDays, "near expiration window in days")
	return cmd
}
