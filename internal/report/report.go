// Package report assembles the overall matrix, the per-category breakdown and
// the summary for one filtered snapshot of a record store.
package report

import (
	"time"

	"classreport/internal/matrix"
	"classreport/internal/record"
)

// NoMatchMessage is shown in place of a report when the filter selects no
// records.
const NoMatchMessage = "no matching records"

// Source is the read side of a record store.
type Source interface {
	Filter(c *record.Criteria) []record.Record
	All() []record.Record
}

// Report is the result of one aggregation request. All parts are computed
// from the same record snapshot.
type Report struct {
	Filter            map[string]string       `json:"filter"`
	GeneratedAt       time.Time               `json:"generatedAt"`
	Overall           *matrix.ConfusionMatrix `json:"overall"`
	ByPrimaryCategory matrix.Breakdown        `json:"byPrimaryCategory"`
	Summary           matrix.Summary          `json:"summary"`

	// Records is the snapshot the report was computed from.
	Records []record.Record `json:"-"`
}

// Build resolves the record subset (criteria nil means all records) and
// aggregates it. ok is false when the subset is empty; that is the
// "no matching records" outcome, not a failure.
func Build(src Source, criteria *record.Criteria, agg matrix.Aggregator) (rep *Report, ok bool) {
	var records []record.Record
	if criteria != nil {
		records = src.Filter(criteria)
	} else {
		records = src.All()
	}
	if len(records) == 0 {
		return nil, false
	}
	return FromRecords(records, criteria, agg), true
}

// FromRecords aggregates an already-resolved snapshot. An empty snapshot
// yields a zero-filled report; callers wanting the no-match outcome use Build.
//
// The overall matrix is the cell-wise sum of the category matrices, so the
// breakdown always adds up to it.
func FromRecords(records []record.Record, criteria *record.Criteria, agg matrix.Aggregator) *Report {
	byCategory := agg.GroupByPrimaryCategory(records)
	parts := make([]*matrix.ConfusionMatrix, len(byCategory))
	for i, c := range byCategory {
		parts[i] = c.Matrix
	}
	return &Report{
		Filter:            criteria.Fields(),
		GeneratedAt:       time.Now().UTC(),
		Overall:           matrix.Merge(agg.Classes, parts...),
		ByPrimaryCategory: byCategory,
		Summary:           agg.Summarize(records),
		Records:           records,
	}
}
