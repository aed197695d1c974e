// Package matrix turns a set of classification records into confusion
// matrices with per-class precision and recall, a per-category breakdown and
// a pass/fail summary.
//
// Indexing is fixed: row = actual class, column = expected (predicted) class.
// Precision for class j is the diagonal cell over column j's sum; recall for
// class i is the diagonal cell over row i's sum. Empty denominators yield 0.
package matrix

import (
	"math"

	"classreport/internal/record"
)

// ConfusionMatrix is a K×K count grid plus its derived statistics. It is
// computed fresh for each request and never mutated afterwards.
type ConfusionMatrix struct {
	Classes       int       `json:"classes"`
	Matrix        [][]int   `json:"matrix"` // [actual][expected]
	Precision     []float64 `json:"precision"`
	Recall        []float64 `json:"recall"`
	TotalExpected []int     `json:"totalExpected"` // column sums
	TotalActual   []int     `json:"totalActual"`   // row sums
	TotalRecords  int       `json:"totalRecords"`
	Accuracy      float64   `json:"accuracy"` // diagonal share of all records, percent
}

// Correct returns the number of records on the diagonal.
func (m *ConfusionMatrix) Correct() int {
	n := 0
	for i := 0; i < m.Classes; i++ {
		n += m.Matrix[i][i]
	}
	return n
}

// Aggregator computes matrices over a fixed class alphabet of size Classes.
// It holds no state between calls.
type Aggregator struct {
	Classes int
}

// New returns an Aggregator for k classes.
func New(k int) Aggregator {
	return Aggregator{Classes: k}
}

// Compute builds the confusion matrix for records. Records are expected to
// have passed record.Validator with the same class count; an empty input
// yields an all-zero matrix.
func (a Aggregator) Compute(records []record.Record) *ConfusionMatrix {
	k := a.Classes
	grid := newGrid(k)
	for _, r := range records {
		grid[r.ActualValue][r.ExpectedValue]++
	}
	m := derive(k, grid)
	m.TotalRecords = len(records)
	m.Accuracy = percent(m.Correct(), m.TotalRecords)
	return m
}

// Merge sums matrices of equal size cell by cell and re-derives statistics.
// With no inputs it returns the empty matrix for k classes.
func Merge(k int, ms ...*ConfusionMatrix) *ConfusionMatrix {
	grid := newGrid(k)
	total := 0
	for _, m := range ms {
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				grid[i][j] += m.Matrix[i][j]
			}
		}
		total += m.TotalRecords
	}
	out := derive(k, grid)
	out.TotalRecords = total
	out.Accuracy = percent(out.Correct(), total)
	return out
}

func newGrid(k int) [][]int {
	grid := make([][]int, k)
	for i := range grid {
		grid[i] = make([]int, k)
	}
	return grid
}

func derive(k int, grid [][]int) *ConfusionMatrix {
	m := &ConfusionMatrix{
		Classes:       k,
		Matrix:        grid,
		Precision:     make([]float64, k),
		Recall:        make([]float64, k),
		TotalExpected: make([]int, k),
		TotalActual:   make([]int, k),
	}
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			m.TotalActual[i] += grid[i][j]
			m.TotalExpected[j] += grid[i][j]
		}
	}
	for c := 0; c < k; c++ {
		m.Precision[c] = percent(grid[c][c], m.TotalExpected[c])
		m.Recall[c] = percent(grid[c][c], m.TotalActual[c])
	}
	return m
}

// percent returns num/den*100 rounded to two decimals, or 0 when den is 0.
func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round2(float64(num) / float64(den) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
