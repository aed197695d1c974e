package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"classreport/internal/record"
)

const records = `[
 {"primaryCategory":"A","secondaryCategory":"a1","expectedValue":2,"actualValue":2,"useCase":"login","scenario":"mobile","vertical":"retail","factor":"network","factorValue":"good"},
 {"primaryCategory":"A","secondaryCategory":"a1","expectedValue":2,"actualValue":2,"useCase":"login","scenario":"pc","vertical":"retail","factor":"network","factorValue":"poor"},
 {"primaryCategory":"B","secondaryCategory":"b1","expectedValue":3,"actualValue":2,"useCase":"browse","scenario":"pc","vertical":"news","factor":"region","factorValue":"north"}
]`

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CLASSREPORT_CONFIG", "")
	t.Setenv("CLASSREPORT_DATA_PATH", "")
	path := filepath.Join(dir, "records.json")
	if err := os.WriteFile(path, []byte(records), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReport_ASCII(t *testing.T) {
	data := fixture(t)
	out, err := run(t, "report", "--data", data)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"Total records", "Overall (3 records", "Category: A", "Category: B", "66.67%"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestReport_FiltersAndFormats(t *testing.T) {
	data := fixture(t)

	out, err := run(t, "report", "--data", data, "--vertical", "retail", "--format", "markdown")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "Vertical = retail") || strings.Contains(out, "Category: B") {
		t.Errorf("filter not applied:\n%s", out)
	}

	out, err = run(t, "report", "--data", data, "--status", "fail", "--format", "json")
	if err != nil {
		t.Fatalf("report json: %v", err)
	}
	if !strings.Contains(out, `"totalRecords": 1`) || !strings.Contains(out, `"status": "fail"`) {
		t.Errorf("unexpected json:\n%s", out)
	}
}

func TestReport_NoMatch(t *testing.T) {
	data := fixture(t)
	out, err := run(t, "report", "--data", data, "--use-case", "checkout")
	if err != nil {
		t.Fatalf("no match should not fail: %v", err)
	}
	if strings.TrimSpace(out) != "no matching records" {
		t.Errorf("output = %q", out)
	}
}

func TestReport_Errors(t *testing.T) {
	data := fixture(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no data", []string{"report"}},
		{"bad format", []string{"report", "--data", data, "--format", "pdf"}},
		{"bad status", []string{"report", "--data", data, "--status", "maybe"}},
		{"bad log level", []string{"report", "--data", data, "--log-level", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := run(t, "report", "--status", "maybe", "--data", data)
	if !errors.Is(err, record.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestReport_DataFromConfig(t *testing.T) {
	data := fixture(t)
	cfg := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(cfg, []byte("data_path: "+data+"\nclasses: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "report", "--config", cfg, "--format", "csv")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	// K=4 gives header "actual\predicted,0,1,2,3,SUM,Recall"
	if !strings.Contains(out, ",3,SUM,Recall") || strings.Contains(out, ",4,") {
		t.Errorf("expected a 4-class matrix:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	data := fixture(t)
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	out, err := run(t, "export", "--data", data, "-o", dest, "--primary-category", "A")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "(2 records)") {
		t.Errorf("output = %q", out)
	}

	f, err := excelize.OpenFile(dest)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) != 4 || sheets[2] != "Category-A" {
		t.Errorf("sheets = %v", sheets)
	}
}

func TestExport_DetailsOnlyToExportDir(t *testing.T) {
	data := fixture(t)
	dir := filepath.Join(t.TempDir(), "exports")
	t.Setenv("CLASSREPORT_EXPORT_DIR", dir)

	if _, err := run(t, "export", "--data", data, "--details-only"); err != nil {
		t.Fatalf("export: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "classification_report_*.xlsx"))
	if len(matches) != 1 {
		t.Fatalf("expected one workbook in %s, got %v", dir, matches)
	}
	f, err := excelize.OpenFile(matches[0])
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Details" {
		t.Errorf("sheets = %v", sheets)
	}
}

func TestExport_NoMatch(t *testing.T) {
	data := fixture(t)
	_, err := run(t, "export", "--data", data, "--factor", "none", "-o", filepath.Join(t.TempDir(), "x.xlsx"))
	if err == nil || !strings.Contains(err.Error(), "no matching records") {
		t.Errorf("err = %v", err)
	}
}

func TestOptions(t *testing.T) {
	data := fixture(t)
	out, err := run(t, "options", "--data", data)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	for _, want := range []string{"Use Case", "browse, login", "Factor Value", "good, north, poor"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = run(t, "options", "--data", data, "--dimension", "primary_category")
	if err != nil {
		t.Fatalf("options --dimension: %v", err)
	}
	if out != "A\nB\n" {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, "options", "--data", data, "--dimension", "colour"); !errors.Is(err, record.ErrUnknownDimension) {
		t.Errorf("err = %v, want ErrUnknownDimension", err)
	}
}

func TestRecords_JSONLinesRoundTrip(t *testing.T) {
	data := fixture(t)

	out, err := run(t, "records", "--data", data, "--vertical", "retail")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"factorValue":"good"`) {
		t.Fatalf("unexpected records output:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "retail.jsonl")
	if _, err := run(t, "records", "--data", data, "-o", path); err != nil {
		t.Fatalf("records -o: %v", err)
	}
	out, err = run(t, "report", "--data", path)
	if err != nil {
		t.Fatalf("report from jsonl: %v", err)
	}
	if !strings.Contains(out, "Overall (3 records") {
		t.Errorf("jsonl did not load back:\n%s", out)
	}

	out, err = run(t, "records", "--data", data, "--page", "2", "--page-size", "2")
	if err != nil {
		t.Fatalf("records --page: %v", err)
	}
	if n := strings.Count(out, "\n"); n != 1 || !strings.Contains(out, `"primaryCategory":"B"`) {
		t.Errorf("page 2 = %q", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "classreport dev\n" {
		t.Errorf("output = %q", out)
	}
}
