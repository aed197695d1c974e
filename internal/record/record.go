// Package record holds classification outcomes and the in-memory store that
// answers dimension-filtered queries over them.
//
// A Record pairs an expected and an actual class code from a closed range
// [0, K-1] with the descriptive tags used to slice reports (use case,
// scenario, vertical, factor). Records are validated once, on the way into a
// Store, and are treated as immutable afterwards.
package record

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultClasses is the class-alphabet size of the reference deployment.
const DefaultClasses = 16

var (
	ErrValueOutOfRange = errors.New("record: class value out of range")
	ErrInvalidStatus   = errors.New("record: invalid status")
	ErrStatusMismatch  = errors.New("record: status contradicts expected/actual values")
	ErrInvalidClasses  = errors.New("record: class count must be >= 1")
)

// Status is the pass/fail outcome of a single classification.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// ParseStatus accepts "pass" or "fail" in any case. The empty string parses
// to the empty Status, meaning "derive it".
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(StatusPass):
		return StatusPass, nil
	case string(StatusFail):
		return StatusFail, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// StatusOf derives the status implied by an expected/actual pair.
func StatusOf(expected, actual int) Status {
	if expected == actual {
		return StatusPass
	}
	return StatusFail
}

// Record is one classification outcome. Decoding from JSON or YAML accepts
// snake_case spellings of every key and fails when either class value is
// absent.
type Record struct {
	PrimaryCategory   string `json:"primaryCategory" yaml:"primaryCategory"`
	SecondaryCategory string `json:"secondaryCategory" yaml:"secondaryCategory"`
	ExpectedValue     int    `json:"expectedValue" yaml:"expectedValue"` // predicted class (matrix column)
	ActualValue       int    `json:"actualValue" yaml:"actualValue"`     // true class (matrix row)
	Status            Status `json:"status" yaml:"status"`

	UseCase     string `json:"useCase" yaml:"useCase"`
	Scenario    string `json:"scenario" yaml:"scenario"`
	Vertical    string `json:"vertical" yaml:"vertical"`
	Factor      string `json:"factor" yaml:"factor"`
	FactorValue string `json:"factorValue" yaml:"factorValue"`

	// Carried through unchanged; never inspected by aggregation.
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	TestID    string `json:"testId,omitempty" yaml:"testId,omitempty"`
	Notes     string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Passed reports whether the record's expected and actual values agree.
func (r Record) Passed() bool {
	return r.Status == StatusPass
}

// Validator checks records against a class range and status policy.
// The zero value is not usable; build one with NewValidator or set Classes.
type Validator struct {
	Classes int // K; valid codes are [0, Classes-1]

	// StrictStatus rejects a caller-supplied status that disagrees with the
	// expected/actual pair instead of correcting it.
	StrictStatus bool
}

// NewValidator returns a Validator for k classes that corrects contradicting
// statuses silently.
func NewValidator(k int) Validator {
	return Validator{Classes: k}
}

// Validate returns a normalized copy of r with Status derived from the
// expected/actual pair. On error no record is produced.
func (v Validator) Validate(r Record) (Record, error) {
	if v.Classes < 1 {
		return Record{}, fmt.Errorf("%w: %d", ErrInvalidClasses, v.Classes)
	}
	if r.ExpectedValue < 0 || r.ExpectedValue >= v.Classes {
		return Record{}, fmt.Errorf("%w: expectedValue=%d not in [0, %d]", ErrValueOutOfRange, r.ExpectedValue, v.Classes-1)
	}
	if r.ActualValue < 0 || r.ActualValue >= v.Classes {
		return Record{}, fmt.Errorf("%w: actualValue=%d not in [0, %d]", ErrValueOutOfRange, r.ActualValue, v.Classes-1)
	}

	given, err := ParseStatus(string(r.Status))
	if err != nil {
		return Record{}, err
	}
	derived := StatusOf(r.ExpectedValue, r.ActualValue)
	if given != "" && given != derived && v.StrictStatus {
		return Record{}, fmt.Errorf("%w: status=%s expected=%d actual=%d", ErrStatusMismatch, given, r.ExpectedValue, r.ActualValue)
	}

	out := r
	out.Status = derived
	return out, nil
}

// ValidateAll validates every record, returning normalized copies. The first
// failure aborts and is reported with its index.
func (v Validator) ValidateAll(records []Record) ([]Record, error) {
	out := make([]Record, 0, len(records))
	for i, r := range records {
		nr, err := v.Validate(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, nr)
	}
	return out, nil
}
