package matrix

import (
	"bytes"
	"encoding/json"

	"classreport/internal/record"
)

// CategoryMatrix is one group of a Breakdown.
type CategoryMatrix struct {
	Category string           `json:"category"`
	Matrix   *ConfusionMatrix `json:"matrix"`
}

// Breakdown is the per-primary-category set of matrices, ordered by the
// first appearance of each category in the input.
type Breakdown []CategoryMatrix

// Get returns the matrix for category, or nil.
func (b Breakdown) Get(category string) *ConfusionMatrix {
	for _, c := range b {
		if c.Category == category {
			return c.Matrix
		}
	}
	return nil
}

// Categories returns the category names in breakdown order.
func (b Breakdown) Categories() []string {
	out := make([]string, len(b))
	for i, c := range b {
		out[i] = c.Category
	}
	return out
}

// MarshalJSON renders the breakdown as an object keyed by category, keeping
// breakdown order.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Matrix)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GroupByPrimaryCategory partitions records by PrimaryCategory (stable,
// first-seen order) and computes a matrix for each partition.
func (a Aggregator) GroupByPrimaryCategory(records []record.Record) Breakdown {
	index := make(map[string]int)
	var groups [][]record.Record
	var names []string
	for _, r := range records {
		i, ok := index[r.PrimaryCategory]
		if !ok {
			i = len(groups)
			index[r.PrimaryCategory] = i
			groups = append(groups, nil)
			names = append(names, r.PrimaryCategory)
		}
		groups[i] = append(groups[i], r)
	}

	out := make(Breakdown, len(groups))
	for i, g := range groups {
		out[i] = CategoryMatrix{Category: names[i], Matrix: a.Compute(g)}
	}
	return out
}
