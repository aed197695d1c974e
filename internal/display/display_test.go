package display

import "testing"

func TestDimension(t *testing.T) {
	cases := []struct {
		code, want string
	}{
		{"useCase", "Use Case"},
		{"factorValue", "Factor Value"},
		{"primaryCategory", "Primary Category"},
		{"status", "Status"},
		{"unknown", "unknown"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Dimension(tc.code); got != tc.want {
			t.Errorf("Dimension(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestUniqueCount(t *testing.T) {
	if got := UniqueCount("useCases"); got != "Use Cases" {
		t.Errorf("got %q", got)
	}
	if got := UniqueCount("other"); got != "other" {
		t.Errorf("got %q", got)
	}
}

func TestStatus(t *testing.T) {
	if got := Status("pass"); got != "PASS" {
		t.Errorf("got %q", got)
	}
	if got := Status(""); got != "-" {
		t.Errorf("got %q", got)
	}
}

func TestClassLabels(t *testing.T) {
	if got := Actual(3); got != "actual 3" {
		t.Errorf("Actual(3) = %q", got)
	}
	if got := Predicted(15); got != "predicted 15" {
		t.Errorf("Predicted(15) = %q", got)
	}
}

func TestFilter(t *testing.T) {
	if got := Filter(nil); got != "all records" {
		t.Errorf("Filter(nil) = %q", got)
	}
	got := Filter(map[string]string{"useCase": "search", "status": "pass"})
	want := "Status = PASS, Use Case = search"
	if got != want {
		t.Errorf("Filter = %q, want %q", got, want)
	}
}

func TestCategory(t *testing.T) {
	if got := Category(""); got != "(uncategorised)" {
		t.Errorf("got %q", got)
	}
	if got := Category("A"); got != "A" {
		t.Errorf("got %q", got)
	}
}
