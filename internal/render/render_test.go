package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"classreport/internal/format"
	"classreport/internal/matrix"
	"classreport/internal/record"
	"classreport/internal/report"
)

func rec(cat string, exp, act int) record.Record {
	return record.Record{
		PrimaryCategory: cat, SecondaryCategory: cat + "-sub",
		ExpectedValue: exp, ActualValue: act, Status: record.StatusOf(exp, act),
		UseCase: "search", Scenario: "home", Vertical: "retail", Factor: "light", FactorValue: "low",
	}
}

func buildReport(t *testing.T, k int, records ...record.Record) *report.Report {
	t.Helper()
	store := record.NewStore(record.NewValidator(k))
	if err := store.AddAll(records); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	rep, ok := report.Build(store, nil, matrix.New(k))
	if !ok {
		t.Fatal("expected a report")
	}
	return rep
}

func TestText_ASCII(t *testing.T) {
	rep := buildReport(t, 4, rec("A", 2, 2), rec("A", 2, 2), rec("B", 3, 2))
	out := Text(rep, format.ASCII)

	for _, want := range []string{
		"Filter: all records",
		"Total records",
		"66.67%",
		"Overall (3 records, accuracy 66.67%)",
		"Category: A",
		"Category: B",
		"actual 2",
		"Precision",
		"Recall",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "Category: A") > strings.Index(out, "Category: B") {
		t.Error("categories should keep first-seen order")
	}
}

func TestMatrix_NumericColumnsRightAligned(t *testing.T) {
	m := matrix.New(2).Compute([]record.Record{rec("A", 0, 0), rec("A", 0, 1)})
	out := Matrix("Overall", m, format.ASCII)

	var row string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "actual 1") {
			row = strings.TrimRight(line, " ")
		}
	}
	// "100.00%" sets the Recall column width; the shorter value pads on the left.
	if !strings.HasSuffix(row, "   0.00% │") {
		t.Errorf("recall cell not right-aligned: %q\n%s", row, out)
	}
}

func TestText_CSV(t *testing.T) {
	rep := buildReport(t, 2, rec("A", 1, 1))
	out := Text(rep, format.CSV)
	if strings.Contains(out, "Filter:") {
		t.Errorf("csv output should not carry the filter line:\n%s", out)
	}
	if !strings.Contains(out, "actual 1,0,1,1,100.00%") {
		t.Errorf("expected csv matrix row in output:\n%s", out)
	}
}

func TestNoMatch(t *testing.T) {
	if got := NoMatch(format.ASCII); got != report.NoMatchMessage+"\n" {
		t.Errorf("NoMatch = %q", got)
	}
	if got := NoMatch(format.Markdown); !strings.Contains(got, report.NoMatchMessage) {
		t.Errorf("NoMatch markdown = %q", got)
	}
}

func TestJSON_Shape(t *testing.T) {
	rep := buildReport(t, 4, rec("B", 1, 1), rec("A", 0, 1))
	var buf bytes.Buffer
	if err := JSON(&buf, rep); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"overall", "byPrimaryCategory", "summary", "filter", "generatedAt"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if _, ok := got["records"]; ok {
		t.Error("records must not be serialized")
	}
	raw := string(got["byPrimaryCategory"])
	if strings.Index(raw, `"B"`) > strings.Index(raw, `"A"`) {
		t.Errorf("breakdown should start with first-seen category B: %s", raw)
	}
}

func openBook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func value(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s): %v", sheet, ref, err)
	}
	return v
}

func fillColor(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	id, err := f.GetCellStyle(sheet, ref)
	if err != nil {
		t.Fatalf("GetCellStyle: %v", err)
	}
	st, err := f.GetStyle(id)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if len(st.Fill.Color) == 0 {
		return ""
	}
	c := strings.ToUpper(st.Fill.Color[0])
	if len(c) > 6 {
		c = c[len(c)-6:]
	}
	return c
}

func TestRenderWorkbook_Sheets(t *testing.T) {
	rep := buildReport(t, 4,
		rec("A", 2, 2), rec("A", 2, 2), rec("A", 3, 2),
		rec("very/long:category name that overflows", 0, 0),
	)
	var buf bytes.Buffer
	if err := RenderWorkbook(&buf, rep, WorkbookOptions{SheetNameLimit: 10}); err != nil {
		t.Fatalf("RenderWorkbook: %v", err)
	}
	f := openBook(t, &buf)

	want := []string{"Summary", "Overall", "Category-A", "Category-very_long_", "Details"}
	if diff := cmp.Diff(want, f.GetSheetList()); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	if got := value(t, f, "Summary", "B5"); got != "4" {
		t.Errorf("total records = %q, want 4", got)
	}

	// K=4: header row 3, data rows 4..7, SUM row 8, precision row 9.
	if got := value(t, f, "Category-A", "D6"); got != "2" {
		t.Errorf("diagonal [2][2] = %q, want 2", got)
	}
	if got := value(t, f, "Category-A", "E6"); got != "1" {
		t.Errorf("cell [2][3] = %q, want 1", got)
	}
	if got := value(t, f, "Category-A", "F6"); got != "3" {
		t.Errorf("row sum = %q, want 3", got)
	}
	if got := value(t, f, "Category-A", "G6"); got != "66.67" {
		t.Errorf("recall[2] = %q, want 66.67", got)
	}
	if got := value(t, f, "Category-A", "A8"); got != "SUM" {
		t.Errorf("SUM label = %q", got)
	}
	if got := value(t, f, "Category-A", "D9"); got != "100" {
		t.Errorf("precision[2] = %q, want 100", got)
	}
	if got := fillColor(t, f, "Category-A", "D6"); got != colorPass {
		t.Errorf("diagonal fill = %q, want %s", got, colorPass)
	}
	if got := fillColor(t, f, "Category-A", "B4"); got == colorPass {
		t.Error("empty diagonal cell should not be highlighted")
	}
	if got := fillColor(t, f, "Overall", "A3"); got != colorHeader {
		t.Errorf("header fill = %q, want %s", got, colorHeader)
	}
}

func TestRenderWorkbook_Details(t *testing.T) {
	rep := buildReport(t, 4, rec("A", 1, 1), rec("A", 1, 2))
	var buf bytes.Buffer
	if err := RenderWorkbook(&buf, rep, WorkbookOptions{}); err != nil {
		t.Fatalf("RenderWorkbook: %v", err)
	}
	f := openBook(t, &buf)

	rows, err := f.GetRows(SheetDetails)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][4] != "PASS" || rows[2][4] != "FAIL" {
		t.Errorf("status column = %q, %q", rows[1][4], rows[2][4])
	}
	if got := fillColor(t, f, SheetDetails, "E3"); got != colorFail {
		t.Errorf("fail fill = %q, want %s", got, colorFail)
	}
	panes, err := f.GetPanes(SheetDetails)
	if err != nil {
		t.Fatalf("GetPanes: %v", err)
	}
	if !panes.Freeze || panes.YSplit != 1 {
		t.Errorf("header row should be frozen: %+v", panes)
	}
}

func TestRenderWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderWorkbook(&buf, nil, WorkbookOptions{}); err == nil {
		t.Fatal("expected error for empty report")
	}
}

func TestRenderRecordsWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRecordsWorkbook(&buf, []record.Record{rec("A", 0, 0)}); err != nil {
		t.Fatalf("RenderRecordsWorkbook: %v", err)
	}
	f := openBook(t, &buf)
	if diff := cmp.Diff([]string{SheetDetails}, f.GetSheetList()); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}
	if got := value(t, f, SheetDetails, "A2"); got != "A" {
		t.Errorf("A2 = %q", got)
	}
}

func TestSheetNames(t *testing.T) {
	names := newSheetNames(SheetSummary, SheetOverall, SheetDetails)
	tests := []struct {
		prefix, in string
		limit      int
		want       string
	}{
		{"Category-", "A", 20, "Category-A"},
		{"Category-", "a", 20, "Category-a~2"},
		{"Category-", "x[1]?", 20, "Category-x_1__"},
		{"", "summary", 20, "summary~2"},
		{"Category-", strings.Repeat("长", 40), 40, "Category-" + strings.Repeat("长", 22)},
	}
	for _, tt := range tests {
		if got := names.next(tt.prefix, tt.in, tt.limit); got != tt.want {
			t.Errorf("next(%q, %q) = %q, want %q", tt.prefix, tt.in, got, tt.want)
		}
	}
	if got := SanitizeSheetName("'quoted'"); got != "quoted" {
		t.Errorf("SanitizeSheetName = %q", got)
	}
}
