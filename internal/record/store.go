package record

import (
	"sort"
	"sync"
)

// Store is an ordered, in-memory collection of validated records.
//
// Mutations and reads are mutually exclusive over the whole collection, so a
// reader sees the store either before or after a mutation, never partway.
// Insertion order is preserved and drives the order of every query result.
type Store struct {
	mu        sync.RWMutex
	validator Validator
	records   []Record
}

// NewStore returns an empty Store that validates records with v.
func NewStore(v Validator) *Store {
	return &Store{validator: v}
}

// Validator returns the validator the store applies on insertion.
func (s *Store) Validator() Validator {
	return s.validator
}

// Add validates and appends one record. An invalid record leaves the store
// unchanged.
func (s *Store) Add(r Record) error {
	nr, err := s.validator.Validate(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, nr)
	return nil
}

// AddAll validates every record and then appends them in order. If any
// record is invalid nothing is appended.
func (s *Store) AddAll(records []Record) error {
	valid, err := s.validator.ValidateAll(records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, valid...)
	return nil
}

// Replace swaps the whole collection for records in one step. If any record
// is invalid the store keeps its previous contents.
func (s *Store) Replace(records []Record) error {
	valid, err := s.validator.ValidateAll(records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = valid
	return nil
}

// Clear removes all records.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Filter returns every record matching c, in store order. The returned slice
// is a snapshot owned by the caller.
func (s *Store) Filter(c *Criteria) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, r := range s.records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// All returns a snapshot of every record, in store order.
func (s *Store) All() []Record {
	return s.Filter(nil)
}

// DistinctValues returns the sorted, deduplicated non-empty values observed
// for dimension name across the whole store.
func (s *Store) DistinctValues(name string) ([]string, error) {
	d, err := ParseDimension(name)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.records, d), nil
}

// Options returns DistinctValues for every dimension, computed under a single
// read lock so the lists describe one consistent state.
func (s *Store) Options() map[Dimension][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Dimension][]string, len(Dimensions))
	for _, d := range Dimensions {
		out[d] = distinct(s.records, d)
	}
	return out
}

func distinct(records []Record, d Dimension) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if v := d.Value(r); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
