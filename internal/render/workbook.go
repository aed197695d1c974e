package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"classreport/internal/display"
	"classreport/internal/matrix"
	"classreport/internal/record"
	"classreport/internal/report"
)

// Sheet names of the full workbook.
const (
	SheetSummary        = "Summary"
	SheetOverall        = "Overall"
	SheetDetails        = "Details"
	CategorySheetPrefix = "Category-"
)

// Fill colours.
const (
	colorHeader = "4472C4"
	colorPass   = "90EE90"
	colorFail   = "FFB6C1"
)

const maxSheetName = 31

// DefaultSheetNameLimit caps the category part of a sheet name.
const DefaultSheetNameLimit = 20

// detailHeaders are the column titles of the Details sheet.
var detailHeaders = []string{
	"Primary Category", "Secondary Category", "Expected", "Actual", "Status",
	"Use Case", "Scenario", "Vertical", "Factor", "Factor Value",
	"Test ID", "Timestamp", "Notes",
}

// WorkbookOptions tunes workbook rendering.
type WorkbookOptions struct {
	// SheetNameLimit caps the category part of a sheet name, in runes.
	SheetNameLimit int
}

// RenderWorkbook writes the full report workbook: Summary, Overall, one
// sheet per primary category and Details.
func RenderWorkbook(w io.Writer, rep *report.Report, opts WorkbookOptions) (err error) {
	if rep == nil || rep.Summary.TotalRecords == 0 {
		return errors.New("render: " + report.NoMatchMessage)
	}
	limit := opts.SheetNameLimit
	if limit <= 0 {
		limit = DefaultSheetNameLimit
	}

	b, err := newBook()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := b.summarySheet(rep); err != nil {
		return err
	}
	if err := b.matrixSheet(SheetOverall, rep.Overall); err != nil {
		return err
	}
	names := newSheetNames(SheetSummary, SheetOverall, SheetDetails)
	for _, c := range rep.ByPrimaryCategory {
		name := names.next(CategorySheetPrefix, display.Category(c.Category), limit)
		if err := b.matrixSheet(name, c.Matrix); err != nil {
			return err
		}
	}
	if err := b.detailSheet(SheetDetails, rep.Records); err != nil {
		return err
	}
	return b.finish(w)
}

// RenderRecordsWorkbook writes a workbook holding only the Details sheet.
func RenderRecordsWorkbook(w io.Writer, records []record.Record) (err error) {
	b, err := newBook()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := b.detailSheet(SheetDetails, records); err != nil {
		return err
	}
	return b.finish(w)
}

// book wraps an excelize file with the shared style IDs.
type book struct {
	f      *excelize.File
	first  bool
	header int
	title  int
	bold   int
	diag   int
	pass   int
	fail   int
}

func newBook() (*book, error) {
	f := excelize.NewFile()
	b := &book{f: f, first: true}
	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&b.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      solid(colorHeader),
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&b.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 14},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&b.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&b.diag, &excelize.Style{Fill: solid(colorPass)}},
		{&b.pass, &excelize.Style{Fill: solid(colorPass)}},
		{&b.fail, &excelize.Style{Fill: solid(colorFail)}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("render: style: %w", err)
		}
		*s.dst = id
	}
	return b, nil
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

// sheet creates name, replacing the default sheet the first time.
func (b *book) sheet(name string) error {
	if b.first {
		b.first = false
		if err := b.f.SetSheetName(b.f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("render: sheet %q: %w", name, err)
		}
		return nil
	}
	if _, err := b.f.NewSheet(name); err != nil {
		return fmt.Errorf("render: sheet %q: %w", name, err)
	}
	return nil
}

func (b *book) finish(w io.Writer) error {
	b.f.SetActiveSheet(0)
	if err := b.f.Write(w); err != nil {
		return fmt.Errorf("render: write workbook: %w", err)
	}
	return nil
}

// cell returns the A1 reference for 1-based col and row.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// rowWriter accumulates the first error of a run of cell writes.
type rowWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (r *rowWriter) set(col, row int, v any) {
	if r.err == nil {
		r.err = r.f.SetCellValue(r.sheet, cell(col, row), v)
	}
}

func (r *rowWriter) style(c1, r1, c2, r2, id int) {
	if r.err == nil {
		r.err = r.f.SetCellStyle(r.sheet, cell(c1, r1), cell(c2, r2), id)
	}
}

func (r *rowWriter) width(c1, c2 int, w float64) {
	if r.err != nil {
		return
	}
	a, _ := excelize.ColumnNumberToName(c1)
	z, _ := excelize.ColumnNumberToName(c2)
	r.err = r.f.SetColWidth(r.sheet, a, z, w)
}

func (r *rowWriter) merge(c1, r1, c2, r2 int) {
	if r.err == nil {
		r.err = r.f.MergeCell(r.sheet, cell(c1, r1), cell(c2, r2))
	}
}

func (b *book) summarySheet(rep *report.Report) error {
	if err := b.sheet(SheetSummary); err != nil {
		return err
	}
	w := &rowWriter{f: b.f, sheet: SheetSummary}
	s := rep.Summary

	w.set(1, 1, "Summary Report")
	w.merge(1, 1, 2, 1)
	w.style(1, 1, 2, 1, b.title)
	w.set(1, 2, "Filter: "+display.Filter(rep.Filter))

	row := 4
	w.set(1, row, "Metric")
	w.set(2, row, "Value")
	w.style(1, row, 2, row, b.header)
	stats := []struct {
		label string
		value any
	}{
		{"Total records", s.TotalRecords},
		{"Passed (PASS)", s.Passed},
		{"Failed (FAIL)", s.Failed},
		{"Accuracy (%)", s.Accuracy},
	}
	for _, st := range stats {
		row++
		w.set(1, row, st.label)
		w.set(2, row, st.value)
	}

	row += 2
	w.set(1, row, "Dimension statistics")
	w.style(1, row, 1, row, b.bold)
	row++
	w.set(1, row, "Dimension")
	w.set(2, row, "Unique values")
	w.style(1, row, 2, row, b.header)
	u := s.UniqueCounts
	counts := []struct {
		key string
		n   int
	}{
		{"primaryCategories", u.PrimaryCategories},
		{"secondaryCategories", u.SecondaryCategories},
		{"useCases", u.UseCases},
		{"scenarios", u.Scenarios},
		{"verticals", u.Verticals},
		{"factors", u.Factors},
	}
	for _, c := range counts {
		row++
		w.set(1, row, display.UniqueCount(c.key))
		w.set(2, row, c.n)
	}

	w.width(1, 1, 25)
	w.width(2, 2, 15)
	return w.err
}

// matrixSheet lays out a confusion matrix: title on row 1, header on row 3,
// K data rows, then the SUM and precision rows.
func (b *book) matrixSheet(name string, m *matrix.ConfusionMatrix) error {
	if err := b.sheet(name); err != nil {
		return err
	}
	w := &rowWriter{f: b.f, sheet: name}
	k := m.Classes
	sumCol, recallCol := k+2, k+3

	w.set(1, 1, name)
	w.merge(1, 1, recallCol, 1)
	w.style(1, 1, recallCol, 1, b.title)

	const headerRow = 3
	w.set(1, headerRow, "actual\\predicted")
	for j := 0; j < k; j++ {
		w.set(j+2, headerRow, display.Predicted(j))
	}
	w.set(sumCol, headerRow, "SUM")
	w.set(recallCol, headerRow, "Recall (%)")
	w.style(1, headerRow, recallCol, headerRow, b.header)

	for i := 0; i < k; i++ {
		row := headerRow + 1 + i
		w.set(1, row, display.Actual(i))
		for j := 0; j < k; j++ {
			w.set(j+2, row, m.Matrix[i][j])
		}
		if m.Matrix[i][i] > 0 {
			w.style(i+2, row, i+2, row, b.diag)
		}
		w.set(sumCol, row, m.TotalActual[i])
		w.set(recallCol, row, m.Recall[i])
	}

	sumRow := headerRow + 1 + k
	w.set(1, sumRow, "SUM")
	w.style(1, sumRow, 1, sumRow, b.bold)
	for j := 0; j < k; j++ {
		w.set(j+2, sumRow, m.TotalExpected[j])
	}
	w.set(sumCol, sumRow, m.TotalRecords)
	w.set(recallCol, sumRow, "-")

	precRow := sumRow + 1
	w.set(1, precRow, "Precision (%)")
	w.style(1, precRow, 1, precRow, b.bold)
	for j := 0; j < k; j++ {
		w.set(j+2, precRow, m.Precision[j])
	}
	w.set(sumCol, precRow, "-")
	w.set(recallCol, precRow, "-")

	w.width(1, 1, 16)
	w.width(2, recallCol, 12)
	return w.err
}

func (b *book) detailSheet(name string, records []record.Record) error {
	if err := b.sheet(name); err != nil {
		return err
	}
	w := &rowWriter{f: b.f, sheet: name}
	for i, h := range detailHeaders {
		w.set(i+1, 1, h)
	}
	w.style(1, 1, len(detailHeaders), 1, b.header)

	const statusCol = 5
	for i, r := range records {
		row := i + 2
		values := []any{
			r.PrimaryCategory, r.SecondaryCategory, r.ExpectedValue, r.ActualValue,
			display.Status(string(r.Status)),
			r.UseCase, r.Scenario, r.Vertical, r.Factor, r.FactorValue,
			r.TestID, r.Timestamp, r.Notes,
		}
		for c, v := range values {
			w.set(c+1, row, v)
		}
		st := b.fail
		if r.Passed() {
			st = b.pass
		}
		w.style(statusCol, row, statusCol, row, st)
	}
	w.width(1, len(detailHeaders), 15)
	if w.err != nil {
		return w.err
	}
	return b.f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// sheetNames hands out unique, legal sheet names. Excel compares sheet
// names case-insensitively.
type sheetNames map[string]bool

func newSheetNames(reserved ...string) sheetNames {
	s := make(sheetNames)
	for _, r := range reserved {
		s[strings.ToLower(r)] = true
	}
	return s
}

func (s sheetNames) next(prefix, name string, limit int) string {
	base := prefix + truncateRunes(SanitizeSheetName(name), limit)
	base = truncateRunes(base, maxSheetName)
	candidate := base
	for n := 2; s[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		candidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	s[strings.ToLower(candidate)] = true
	return candidate
}

// SanitizeSheetName replaces characters Excel forbids in sheet names and
// trims leading or trailing apostrophes.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		return "_"
	}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
