package record

import (
	"fmt"
	"sort"
	"strings"
)

// Criteria is a conjunction of exact, case-sensitive equality constraints.
// A dimension without a constraint matches every record; the zero Criteria
// matches everything.
type Criteria struct {
	fields map[Dimension]string
	status Status
}

// NewCriteria returns an empty (match-all) Criteria.
func NewCriteria() *Criteria {
	return &Criteria{}
}

// Where constrains d to equal value. An empty value removes the constraint,
// matching how blank form fields are treated by the HTTP and CLI surfaces.
func (c *Criteria) Where(d Dimension, value string) *Criteria {
	if !d.Valid() {
		panic(fmt.Sprintf("record: Where on unknown dimension %q", string(d)))
	}
	if value == "" {
		delete(c.fields, d)
		return c
	}
	if c.fields == nil {
		c.fields = make(map[Dimension]string)
	}
	c.fields[d] = value
	return c
}

// WithStatus constrains the record status. The empty Status removes it.
func (c *Criteria) WithStatus(s Status) *Criteria {
	c.status = s
	return c
}

// Get returns the constraint on d, if any.
func (c *Criteria) Get(d Dimension) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.fields[d]
	return v, ok
}

// Status returns the status constraint, if any.
func (c *Criteria) Status() (Status, bool) {
	if c == nil || c.status == "" {
		return "", false
	}
	return c.status, true
}

// Empty reports whether c matches every record.
func (c *Criteria) Empty() bool {
	return c == nil || (len(c.fields) == 0 && c.status == "")
}

// Matches reports whether r satisfies every constraint. A nil Criteria
// matches all records.
func (c *Criteria) Matches(r Record) bool {
	if c == nil {
		return true
	}
	for d, want := range c.fields {
		if d.Value(r) != want {
			return false
		}
	}
	if c.status != "" && r.Status != c.status {
		return false
	}
	return true
}

// Fields returns the constraints as a plain map keyed by dimension name.
func (c *Criteria) Fields() map[string]string {
	out := make(map[string]string)
	if c == nil {
		return out
	}
	for d, v := range c.fields {
		out[string(d)] = v
	}
	if c.status != "" {
		out["status"] = string(c.status)
	}
	return out
}

// String renders the constraints deterministically, e.g.
// "primaryCategory=A, status=pass", or "all records".
func (c *Criteria) String() string {
	if c.Empty() {
		return "all records"
	}
	f := c.Fields()
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+f[k])
	}
	return strings.Join(parts, ", ")
}

// CriteriaFromMap builds Criteria from loosely-typed name/value pairs as
// received from request bodies or flags. Keys may be camelCase or snake_case;
// "status" is parsed as a Status. Unknown keys are an error.
func CriteriaFromMap(m map[string]string) (*Criteria, error) {
	c := NewCriteria()
	for k, v := range m {
		if k == "status" {
			s, err := ParseStatus(v)
			if err != nil {
				return nil, err
			}
			c.WithStatus(s)
			continue
		}
		d, err := ParseDimension(k)
		if err != nil {
			return nil, err
		}
		c.Where(d, v)
	}
	return c, nil
}
