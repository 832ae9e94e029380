package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/estoque/internal/stock"
)

func diagnoseCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "diagnose <file>",
		Short: "Report duplicate ids, invalid dates and missing categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := fileSource{path: args[0], sheet: sheet}.FetchRaw(cmd.Context())
			if err != nil {
				return err
			}
			items := stock.Transform(records, time.Now())
			report := stock.Validate(items)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "records: %d, items: %d, dropped: %d\n", len(records), report.Total, len(records)-report.Total)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tITEMS")
			categories := make([]string, 0, len(report.ByCategory))
			for category := range report.ByCategory {
				categories = append(categories, category)
			}
			sort.Strings(categories)
			for _, category := range categories {
				fmt.Fprintf(w, "%s\t%d\n", category, report.ByCategory[category])
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "duplicate ids: %s\n", list(report.DuplicateIDs))
			fmt.Fprintf(out, "without category: %s\n", list(report.WithoutCategory))
			fmt.Fprintf(out, "zero quantity: %s\n", list(report.ZeroQuantity))
			for _, invalid := range report.InvalidDates {
				fmt.Fprintf(out, "invalid date: %s (%s) %q\n", invalid.ID, invalid.Name, invalid.Date)
			}

			if !report.Healthy() {
				return errors.New("stock data has problems")
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "workbook sheet name (default: first sheet)")
	return cmd
}

func list(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
