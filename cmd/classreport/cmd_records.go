package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"classreport/internal/dataset"
	"classreport/internal/logging"
	"classreport/internal/report"
)

func newRecordsCmd(a *app) *cobra.Command {
	var flags struct {
		data     string
		output   string
		page     int
		pageSize int
	}
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Print the matching records as JSON lines",
		Long: `Records prints every record matching the filters, one JSON object per
line, in store order. The output loads back with --data file.jsonl.

--page selects one 1-based window of --page-size records instead.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&flags.data, "data", "", "Record file or directory (.json, .jsonl, .yaml, .csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().IntVar(&flags.page, "page", 0, "1-based page to print (default: all records)")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "Records per page (default: default_page_size from config)")
	filters := addFilterFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if flags.page < 0 || flags.pageSize < 0 {
			return fmt.Errorf("--page and --page-size must be positive")
		}
		criteria, err := filters.criteria()
		if err != nil {
			return err
		}
		store, err := a.openStore(a.dataPath(flags.data), true)
		if err != nil {
			return err
		}

		rows := store.Filter(criteria)
		if flags.page > 0 {
			size := flags.pageSize
			if size == 0 {
				size = a.cfg.DefaultPageSize
			}
			rows = report.Paginate(rows, flags.page, min(size, a.cfg.MaxPageSize)).Records
		}

		if flags.output == "" {
			return dataset.WriteJSONLines(cmd.OutOrStdout(), rows)
		}
		err = writeFile(flags.output, func(f *os.File) error {
			return dataset.WriteJSONLines(f, rows)
		})
		if err != nil {
			return err
		}
		logging.New("cli").Info("records written", "path", flags.output, "count", len(rows))
		return nil
	}
	return cmd
}
