package report

import "classreport/internal/record"

// Page is one window of a record list.
type Page struct {
	Records    []record.Record `json:"data"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// Paginate returns the 1-based page of records with the given size. Pages
// past the end are empty, never nil. page and size must be >= 1; arbitrarily
// large values do not overflow.
func Paginate(records []record.Record, page, size int) Page {
	total := len(records)
	start := total
	if page-1 < total/size+1 {
		start = min((page-1)*size, total)
	}
	end := start + min(size, total-start)
	pages := 0
	if total > 0 {
		pages = (total-1)/size + 1
	}
	rows := make([]record.Record, end-start)
	copy(rows, records[start:end])
	return Page{
		Records:    rows,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: pages,
	}
}
