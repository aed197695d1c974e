package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"classreport/internal/record"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// parseCSV reads a header row followed by one record per row. Header names
// may use any spelling record.FieldKey folds together. Unknown columns are
// ignored; expectedValue and actualValue are required.
func parseCSV(data []byte) ([]record.Record, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: parse csv header: %w", err)
	}

	if missing := record.MissingFields(header); len(missing) > 0 {
		return nil, fmt.Errorf("dataset: csv header: %w: %s", record.ErrMissingField, strings.Join(missing, ", "))
	}

	var out []record.Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: parse csv: %w", err)
		}
		var rec record.Record
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			if _, err := record.SetField(&rec, header[i], cell); err != nil {
				return nil, fmt.Errorf("dataset: csv line %d column %q: %w", line, header[i], err)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
