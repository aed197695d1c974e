package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingField is returned when a serialized record lacks a required key.
var ErrMissingField = errors.New("record: missing required field")

// wireField locates one Record field. Exactly one of text and num is set.
type wireField struct {
	name string
	text func(*Record) *string
	num  func(*Record) *int
}

// wireFields is keyed by FieldKey, so camelCase, snake_case and kebab-case
// spellings of a name resolve to the same field.
var wireFields = map[string]wireField{
	"primarycategory":   {name: "primaryCategory", text: func(r *Record) *string { return &r.PrimaryCategory }},
	"secondarycategory": {name: "secondaryCategory", text: func(r *Record) *string { return &r.SecondaryCategory }},
	"expectedvalue":     {name: "expectedValue", num: func(r *Record) *int { return &r.ExpectedValue }},
	"actualvalue":       {name: "actualValue", num: func(r *Record) *int { return &r.ActualValue }},
	"status":            {name: "status", text: func(r *Record) *string { return (*string)(&r.Status) }},
	"usecase":           {name: "useCase", text: func(r *Record) *string { return &r.UseCase }},
	"scenario":          {name: "scenario", text: func(r *Record) *string { return &r.Scenario }},
	"vertical":          {name: "vertical", text: func(r *Record) *string { return &r.Vertical }},
	"factor":            {name: "factor", text: func(r *Record) *string { return &r.Factor }},
	"factorvalue":       {name: "factorValue", text: func(r *Record) *string { return &r.FactorValue }},
	"timestamp":         {name: "timestamp", text: func(r *Record) *string { return &r.Timestamp }},
	"testid":            {name: "testId", text: func(r *Record) *string { return &r.TestID }},
	"notes":             {name: "notes", text: func(r *Record) *string { return &r.Notes }},
}

// requiredFields must be present in every serialized record.
var requiredFields = []string{"expectedvalue", "actualvalue"}

var keyFolder = strings.NewReplacer("_", "", "-", "", " ", "")

// FieldKey folds a field name to its lookup form: "expected_value",
// "expectedValue" and "Expected-Value" all become "expectedvalue".
func FieldKey(name string) string {
	return strings.ToLower(keyFolder.Replace(strings.TrimSpace(name)))
}

// MissingFields returns the canonical names of required fields that do not
// appear among names, in any spelling.
func MissingFields(names []string) []string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[FieldKey(n)] = true
	}
	var missing []string
	for _, k := range requiredFields {
		if !seen[k] {
			missing = append(missing, wireFields[k].name)
		}
	}
	return missing
}

func missingErr(names []string) error {
	if missing := MissingFields(names); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// SetField assigns a textual value to the field called name. Class values
// are parsed as integers. It returns false for names that are not record
// fields.
func SetField(r *Record, name, value string) (bool, error) {
	f, ok := wireFields[FieldKey(name)]
	if !ok {
		return false, nil
	}
	if f.num != nil {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return true, fmt.Errorf("record: %s: %q is not an integer", f.name, value)
		}
		*f.num(r) = n
		return true, nil
	}
	*f.text(r) = value
	return true, nil
}

// fieldTracker rejects two spellings of the same field in one record.
type fieldTracker struct {
	present []string
	seen    map[string]string
}

func (t *fieldTracker) add(key string) (wireField, bool, error) {
	f, ok := wireFields[FieldKey(key)]
	if !ok {
		return f, false, nil
	}
	if t.seen == nil {
		t.seen = make(map[string]string)
	}
	if prev, dup := t.seen[f.name]; dup {
		return f, false, fmt.Errorf("record: %s given twice (%q and %q)", f.name, prev, key)
	}
	t.seen[f.name] = key
	return f, true, nil
}

// UnmarshalJSON accepts any spelling of the field names and requires both
// class values. Unknown keys are ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var (
		out Record
		t   fieldTracker
	)
	for k, v := range raw {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		f, ok, err := t.add(k)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		t.present = append(t.present, k)
		if f.num != nil {
			if err := json.Unmarshal(v, f.num(&out)); err != nil {
				return fmt.Errorf("record: %s must be an integer", f.name)
			}
			continue
		}
		if err := json.Unmarshal(v, f.text(&out)); err != nil {
			return fmt.Errorf("record: %s must be a string", f.name)
		}
	}
	if err := missingErr(t.present); err != nil {
		return err
	}
	*r = out
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML mappings. Scalar values of
// text fields are taken verbatim, so "factorValue: 10" reads as "10".
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("record: line %d: expected a mapping", node.Line)
	}
	var (
		out Record
		t   fieldTracker
	)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Tag == "!!null" {
			continue
		}
		f, ok, err := t.add(key.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
		if !ok {
			continue
		}
		t.present = append(t.present, key.Value)
		if f.num != nil {
			if err := val.Decode(f.num(&out)); err != nil {
				return fmt.Errorf("record: line %d: %s must be an integer", val.Line, f.name)
			}
			continue
		}
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("record: line %d: %s must be a scalar", val.Line, f.name)
		}
		*f.text(&out) = val.Value
	}
	if err := missingErr(t.present); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = out
	return nil
}
