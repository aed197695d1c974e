package record

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestDecode_RequiresClassValues(t *testing.T) {
	v := NewValidator(DefaultClasses)
	tests := []struct {
		name    string
		body    string
		missing string
	}{
		{"no class values", `{"primaryCategory":"A","status":"pass"}`, "expectedValue, actualValue"},
		{"no actual", `{"expectedValue":3}`, "actualValue"},
		{"null expected", `{"expectedValue":null,"actualValue":3}`, "expectedValue"},
		{"empty object", `{}`, "expectedValue, actualValue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body), v)
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("err = %v, want ErrMissingField", err)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("err = %v, want it to name %s", err, tt.missing)
			}
		})
	}
}

func TestDecode_AcceptsSnakeCase(t *testing.T) {
	data := []byte(`{"primary_category":"A","secondary_category":"a1","expected_value":3,"actual_value":5,
		"use_case":"login","factor_value":"good","test_id":"T1","colour":"ignored"}`)
	got, err := Decode(data, NewValidator(DefaultClasses))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := Record{
		PrimaryCategory:   "A",
		SecondaryCategory: "a1",
		ExpectedValue:     3,
		ActualValue:       5,
		Status:            StatusFail,
		UseCase:           "login",
		FactorValue:       "good",
		TestID:            "T1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded (-want +got):\n%s", diff)
	}
}

func TestUnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"duplicate spelling", `{"expectedValue":1,"expected_value":2,"actualValue":1}`, "given twice"},
		{"string class", `{"expectedValue":"1","actualValue":1}`, "expectedValue must be an integer"},
		{"numeric tag", `{"expectedValue":1,"actualValue":1,"vertical":7}`, "vertical must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			err := json.Unmarshal([]byte(tt.body), &r)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestUnmarshalYAML(t *testing.T) {
	var rs []Record
	doc := `
- primary_category: A
  expectedValue: 2
  actual_value: 2
  factorValue: 10
- primaryCategory: B
  expectedValue: 1
`
	err := yaml.Unmarshal([]byte(doc), &rs)
	if !errors.Is(err, ErrMissingField) || !strings.Contains(err.Error(), "actualValue") {
		t.Fatalf("err = %v, want ErrMissingField naming actualValue", err)
	}

	rs = nil
	if err := yaml.Unmarshal([]byte(doc[:strings.Index(doc, "- primaryCategory")]), &rs); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []Record{{PrimaryCategory: "A", ExpectedValue: 2, ActualValue: 2, FactorValue: "10"}}
	if diff := cmp.Diff(want, rs); diff != "" {
		t.Errorf("decoded (-want +got):\n%s", diff)
	}
}

func TestSetField(t *testing.T) {
	var r Record
	for _, kv := range [][2]string{{"Expected_Value", "4"}, {"actual-value", " 6 "}, {"status", "FAIL"}, {"Use Case", "login"}} {
		if ok, err := SetField(&r, kv[0], kv[1]); !ok || err != nil {
			t.Fatalf("SetField(%q) = %v, %v", kv[0], ok, err)
		}
	}
	want := Record{ExpectedValue: 4, ActualValue: 6, Status: "FAIL", UseCase: "login"}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("record (-want +got):\n%s", diff)
	}

	if ok, _ := SetField(&r, "colour", "red"); ok {
		t.Error("unknown field reported as set")
	}
	if _, err := SetField(&r, "actualValue", "two"); err == nil {
		t.Error("expected integer parse error")
	}
}

func TestMissingFields(t *testing.T) {
	if got := MissingFields([]string{"expected_value", "ActualValue"}); len(got) != 0 {
		t.Errorf("MissingFields = %v, want none", got)
	}
	if diff := cmp.Diff([]string{"actualValue"}, MissingFields([]string{"expectedValue", "notes"})); diff != "" {
		t.Errorf("MissingFields (-want +got):\n%s", diff)
	}
}
