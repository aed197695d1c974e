// Package render turns reports into text tables, JSON and xlsx workbooks.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"classreport/internal/display"
	"classreport/internal/format"
	"classreport/internal/matrix"
	"classreport/internal/report"
)

// Text renders the summary block followed by the overall matrix and one
// matrix per primary category, in breakdown order.
func Text(rep *report.Report, mode format.Mode) string {
	var b strings.Builder
	if mode != format.CSV {
		fmt.Fprintf(&b, "Filter: %s\n\n", display.Filter(rep.Filter))
	}
	b.WriteString(Summary(rep.Summary, mode))
	b.WriteString("\n")
	b.WriteString(Matrix("Overall", rep.Overall, mode))
	for _, c := range rep.ByPrimaryCategory {
		b.WriteString("\n")
		b.WriteString(Matrix("Category: "+display.Category(c.Category), c.Matrix, mode))
	}
	return b.String()
}

// NoMatch renders the placeholder shown instead of an empty report.
func NoMatch(mode format.Mode) string {
	if mode == format.Markdown {
		return "_" + report.NoMatchMessage + "_\n"
	}
	return report.NoMatchMessage + "\n"
}

// Summary renders totals, pass/fail counts, accuracy and unique counts.
func Summary(s matrix.Summary, mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Title("Summary")
	tb.Header("Metric", "Value")
	tb.Row("Total records", s.TotalRecords)
	tb.Row("Passed", s.Passed)
	tb.Row("Failed", s.Failed)
	tb.Row("Accuracy", format.Percent(s.Accuracy))
	tb.Separator()
	u := s.UniqueCounts
	tb.Row(display.UniqueCount("primaryCategories"), u.PrimaryCategories)
	tb.Row(display.UniqueCount("secondaryCategories"), u.SecondaryCategories)
	tb.Row(display.UniqueCount("useCases"), u.UseCases)
	tb.Row(display.UniqueCount("scenarios"), u.Scenarios)
	tb.Row(display.UniqueCount("verticals"), u.Verticals)
	tb.Row(display.UniqueCount("factors"), u.Factors)
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	return tb.String() + "\n"
}

// Matrix renders one confusion matrix: K rows of counts with row sum and
// recall, then a SUM footer and a precision footer.
func Matrix(title string, m *matrix.ConfusionMatrix, mode format.Mode) string {
	k := m.Classes
	tb := format.NewTable(mode)
	tb.Title(fmt.Sprintf("%s (%d records, accuracy %s)", title, m.TotalRecords, format.Percent(m.Accuracy)))

	header := make([]string, 0, k+3)
	header = append(header, "actual\\predicted")
	for j := 0; j < k; j++ {
		header = append(header, strconv.Itoa(j))
	}
	header = append(header, "SUM", "Recall")
	tb.Header(header...)

	for i := 0; i < k; i++ {
		row := make([]any, 0, k+3)
		row = append(row, display.Actual(i))
		for j := 0; j < k; j++ {
			row = append(row, m.Matrix[i][j])
		}
		row = append(row, m.TotalActual[i], format.Percent(m.Recall[i]))
		tb.Row(row...)
	}

	sum := make([]any, 0, k+3)
	prec := make([]any, 0, k+3)
	sum = append(sum, "SUM")
	prec = append(prec, "Precision")
	for j := 0; j < k; j++ {
		sum = append(sum, m.TotalExpected[j])
		prec = append(prec, format.PercentShort(m.Precision[j]))
	}
	sum = append(sum, m.TotalRecords, "-")
	prec = append(prec, "-", "-")

	tb.Footer(sum...)
	tb.Footer(prec...)

	cfgs := make([]format.ColumnConfig, 0, k+2)
	for c := 2; c <= k+3; c++ {
		cfgs = append(cfgs, format.ColumnConfig{Number: c, Align: format.AlignRight})
	}
	tb.Columns(cfgs...)
	return tb.String() + "\n"
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, rep *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
