package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"classreport/internal/api"
	"classreport/internal/matrix"
	"classreport/internal/render"
	"classreport/internal/report"
)

func newExportCmd(a *app) *cobra.Command {
	var flags struct {
		data        string
		output      string
		detailsOnly bool
	}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report for the filtered records as an xlsx workbook",
		Long: `Export writes a workbook with a Summary sheet, the Overall matrix, one
sheet per primary category and a Details sheet listing every record.
--details-only writes just the Details sheet.`,
		Args: cobra.NoArgs,
	}
	filters := addFilterFlags(cmd)
	cmd.Flags().StringVar(&flags.data, "data", "", "Record file or directory (.json, .jsonl, .yaml, .csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output path (default: <export_dir>/classification_report_<timestamp>.xlsx)")
	cmd.Flags().BoolVar(&flags.detailsOnly, "details-only", false, "Write only the Details sheet")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		criteria, err := filters.criteria()
		if err != nil {
			return err
		}
		store, err := a.openStore(a.dataPath(flags.data), true)
		if err != nil {
			return err
		}
		rep, ok := report.Build(store, criteria, matrix.New(a.cfg.Classes))
		if !ok {
			return fmt.Errorf("export: %s (%s)", report.NoMatchMessage, criteria)
		}

		path := flags.output
		if path == "" {
			if err := os.MkdirAll(a.cfg.ExportDir, 0o755); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			path = filepath.Join(a.cfg.ExportDir, api.ExportFileName(time.Now()))
		}

		err = writeFile(path, func(f *os.File) error {
			if flags.detailsOnly {
				return render.RenderRecordsWorkbook(f, rep.Records)
			}
			return render.RenderWorkbook(f, rep, render.WorkbookOptions{SheetNameLimit: a.cfg.SheetNameLimit})
		})
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Workbook: %s (%d records)\n", path, len(rep.Records))
		return nil
	}
	return cmd
}
