package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"classreport/internal/display"
	"classreport/internal/format"
	"classreport/internal/record"
)

func newOptionsCmd(a *app) *cobra.Command {
	var flags struct {
		data      string
		dimension string
		format    string
	}
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the distinct values of each filter dimension",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&flags.data, "data", "", "Record file or directory (.json, .jsonl, .yaml, .csv)")
	cmd.Flags().StringVar(&flags.dimension, "dimension", "", "Print one value per line for this dimension only")
	cmd.Flags().StringVar(&flags.format, "format", "ascii", "Table format: ascii, markdown or csv")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		store, err := a.openStore(a.dataPath(flags.data), true)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if flags.dimension != "" {
			values, err := store.DistinctValues(flags.dimension)
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Fprintln(out, v)
			}
			return nil
		}

		mode, err := format.ParseMode(flags.format)
		if err != nil {
			return err
		}
		opts := store.Options()
		tb := format.NewTable(mode)
		tb.Title(fmt.Sprintf("Filter options (%d records)", store.Len()))
		tb.Header("Dimension", "Count", "Values")
		for _, d := range record.Dimensions {
			values := opts[d]
			tb.Row(display.Dimension(d.String()), len(values), strings.Join(values, ", "))
		}
		tb.Columns(
			format.ColumnConfig{Number: 2, Align: format.AlignRight},
			format.ColumnConfig{Number: 3, MaxWidth: 80},
		)
		fmt.Fprintln(out, tb.String())
		return nil
	}
	return cmd
}
