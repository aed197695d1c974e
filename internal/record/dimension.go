package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDimension is returned when a dimension name is not one of the
// fixed filterable fields.
var ErrUnknownDimension = errors.New("record: unknown dimension")

// Dimension names a free-text field records can be filtered and grouped by.
type Dimension string

const (
	UseCase           Dimension = "useCase"
	Scenario          Dimension = "scenario"
	Vertical          Dimension = "vertical"
	Factor            Dimension = "factor"
	FactorValue       Dimension = "factorValue"
	PrimaryCategory   Dimension = "primaryCategory"
	SecondaryCategory Dimension = "secondaryCategory"
)

// Dimensions lists every dimension in canonical order.
var Dimensions = []Dimension{
	UseCase, Scenario, Vertical, Factor, FactorValue, PrimaryCategory, SecondaryCategory,
}

var accessors = map[Dimension]func(Record) string{
	UseCase:           func(r Record) string { return r.UseCase },
	Scenario:          func(r Record) string { return r.Scenario },
	Vertical:          func(r Record) string { return r.Vertical },
	Factor:            func(r Record) string { return r.Factor },
	FactorValue:       func(r Record) string { return r.FactorValue },
	PrimaryCategory:   func(r Record) string { return r.PrimaryCategory },
	SecondaryCategory: func(r Record) string { return r.SecondaryCategory },
}

// snake_case names accepted from upload and filter payloads.
var aliases = map[string]Dimension{
	"use_case":           UseCase,
	"factor_value":       FactorValue,
	"primary_category":   PrimaryCategory,
	"secondary_category": SecondaryCategory,
}

// ParseDimension resolves a dimension by its camelCase name or snake_case
// alias. Unknown names are an error, never a silent empty dimension.
func ParseDimension(name string) (Dimension, error) {
	n := strings.TrimSpace(name)
	if _, ok := accessors[Dimension(n)]; ok {
		return Dimension(n), nil
	}
	if d, ok := aliases[n]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, name)
}

// Value extracts the dimension's value from r. It panics on a Dimension that
// did not come from this package's constants or ParseDimension.
func (d Dimension) Value(r Record) string {
	get, ok := accessors[d]
	if !ok {
		panic(fmt.Sprintf("record: Value on unknown dimension %q", string(d)))
	}
	return get(r)
}

// Valid reports whether d is one of the known dimensions.
func (d Dimension) Valid() bool {
	_, ok := accessors[d]
	return ok
}

func (d Dimension) String() string { return string(d) }
