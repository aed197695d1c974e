package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"classreport/internal/format"
	"classreport/internal/matrix"
	"classreport/internal/render"
	"classreport/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var flags struct {
		data   string
		format string
	}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the confusion-matrix report for the filtered records",
		Long: `Report loads records, applies the filters and prints the summary, the
overall confusion matrix and one matrix per primary category.

With no matching records it prints "no matching records" and exits 0.`,
		Args: cobra.NoArgs,
	}
	filters := addFilterFlags(cmd)
	cmd.Flags().StringVar(&flags.data, "data", "", "Record file or directory (.json, .jsonl, .yaml, .csv)")
	cmd.Flags().StringVar(&flags.format, "format", "ascii", "Output format: ascii, markdown, csv or json")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		asJSON := flags.format == "json"
		mode := format.ASCII
		if !asJSON {
			m, err := format.ParseMode(flags.format)
			if err != nil {
				return err
			}
			mode = m
		}
		criteria, err := filters.criteria()
		if err != nil {
			return err
		}
		store, err := a.openStore(a.dataPath(flags.data), true)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		rep, ok := report.Build(store, criteria, matrix.New(a.cfg.Classes))
		if !ok {
			if asJSON {
				fmt.Fprintf(out, "{\"error\": %q}\n", report.NoMatchMessage)
				return nil
			}
			fmt.Fprint(out, render.NoMatch(mode))
			return nil
		}
		if asJSON {
			return render.JSON(out, rep)
		}
		fmt.Fprint(out, render.Text(rep, mode))
		return nil
	}
	return cmd
}
