package record

import (
	"encoding/json"
	"fmt"
)

// Encode serializes r as the flat key/value mapping collaborators consume.
func Encode(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// Decode parses a serialized record and validates it, so a decoded record
// always carries the status derived from its values.
func Decode(data []byte, v Validator) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("record: decode: %w", err)
	}
	return v.Validate(r)
}

// DecodeAll parses a JSON array of records and validates each one.
func DecodeAll(data []byte, v Validator) ([]Record, error) {
	var rs []Record
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("record: decode: %w", err)
	}
	return v.ValidateAll(rs)
}
