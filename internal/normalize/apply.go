package normalize

import (
	"maps"
	"slices"
)

// Fields maps an attribute name to the transform applied to it.
type Fields map[string]Transform

// DefaultFields are the roster attributes that carry units in their display text.
var DefaultFields = Fields{
	"salary": Currency,
	"height": LinearMeasure,
	"weight": Mass,
}

// Failure describes one field that could not be normalized.
type Failure struct {
	Member string
	Field  string
	Err    error
}

// ApplyRecord normalizes the fields of record in place. A field whose
// transform fails is set to nil and the rest of the record is kept, every such
// field is returned as a Failure. Attributes the record lacks stay absent.
func ApplyRecord(member string, record map[string]any, fields Fields) []Failure {
	var failures []Failure
	for _, field := range slices.Sorted(maps.Keys(fields)) {
		value, present := record[field]
		if !present {
			continue
		}
		normalized, err := fields[field](value)
		if err != nil {
			failures = append(failures, Failure{Member: member, Field: field, Err: err})
			record[field] = nil
			continue
		}
		record[field] = normalized
	}
	return failures
}
