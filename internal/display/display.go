// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in text reports, workbook headers and logs.
// Keep raw codes for JSON fields, map keys, and equality comparisons.
package display

import (
	"sort"
	"strconv"
	"strings"
)

// --- Dimensions ---

var dimensions = map[string]string{
	"useCase":           "Use Case",
	"scenario":          "Scenario",
	"vertical":          "Vertical",
	"factor":            "Factor",
	"factorValue":       "Factor Value",
	"primaryCategory":   "Primary Category",
	"secondaryCategory": "Secondary Category",
	"status":            "Status",
}

// Dimension returns the human-readable name for a dimension code.
// "useCase" -> "Use Case". Unknown codes are returned as-is.
func Dimension(code string) string {
	if name, ok := dimensions[code]; ok {
		return name
	}
	return code
}

// --- Unique counts ---

var uniqueCounts = map[string]string{
	"primaryCategories":   "Primary Categories",
	"secondaryCategories": "Secondary Categories",
	"useCases":            "Use Cases",
	"scenarios":           "Scenarios",
	"verticals":           "Verticals",
	"factors":             "Factors",
}

// UniqueCount returns the label for a summary unique-count key.
func UniqueCount(key string) string {
	if name, ok := uniqueCounts[key]; ok {
		return name
	}
	return key
}

// --- Status ---

// Status renders a pass/fail status in upper case, "" as "-".
func Status(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ToUpper(s)
}

// --- Classes ---

// Actual labels a matrix row.
func Actual(class int) string {
	return "actual " + strconv.Itoa(class)
}

// Predicted labels a matrix column.
func Predicted(class int) string {
	return "predicted " + strconv.Itoa(class)
}

// --- Filters ---

// Filter humanizes a filter map, sorted by label.
// {"useCase": "search", "status": "pass"} -> "Status = PASS, Use Case = search"
// An empty map is "all records".
func Filter(fields map[string]string) string {
	if len(fields) == 0 {
		return "all records"
	}
	parts := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == "status" {
			v = Status(v)
		}
		parts = append(parts, Dimension(k)+" = "+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// Category labels a breakdown group, falling back for the empty category.
func Category(name string) string {
	if name == "" {
		return "(uncategorised)"
	}
	return name
}
