package matrix

import "classreport/internal/record"

// UniqueCounts is the number of distinct values per dimension in a subset.
type UniqueCounts struct {
	PrimaryCategories   int `json:"primaryCategories"`
	SecondaryCategories int `json:"secondaryCategories"`
	UseCases            int `json:"useCases"`
	Scenarios           int `json:"scenarios"`
	Verticals           int `json:"verticals"`
	Factors             int `json:"factors"`
}

// Summary is the pass/fail overview of a subset.
type Summary struct {
	TotalRecords int          `json:"totalRecords"`
	Passed       int          `json:"passed"`
	Failed       int          `json:"failed"`
	Accuracy     float64      `json:"accuracy"` // percent, 0 for an empty subset
	UniqueCounts UniqueCounts `json:"uniqueCounts"`
}

// Summarize counts passes and failures and the distinct dimension values in
// records. The empty string counts as a distinct value here. Empty input
// yields a zero Summary.
func (a Aggregator) Summarize(records []record.Record) Summary {
	s := Summary{TotalRecords: len(records)}
	for _, r := range records {
		if r.Passed() {
			s.Passed++
		}
	}
	s.Failed = s.TotalRecords - s.Passed
	s.Accuracy = percent(s.Passed, s.TotalRecords)
	s.UniqueCounts = UniqueCounts{
		PrimaryCategories:   countDistinct(records, record.PrimaryCategory),
		SecondaryCategories: countDistinct(records, record.SecondaryCategory),
		UseCases:            countDistinct(records, record.UseCase),
		Scenarios:           countDistinct(records, record.Scenario),
		Verticals:           countDistinct(records, record.Vertical),
		Factors:             countDistinct(records, record.Factor),
	}
	return s
}

func countDistinct(records []record.Record, d record.Dimension) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[d.Value(r)] = struct{}{}
	}
	return len(seen)
}
