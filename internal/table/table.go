// Package table holds the unified member table and the operations over it:
// the left-outer join that builds it, aggregation, and export.
package table

import (
	"maps"
	"slices"
)

const (
	ColumnMember     = "member"
	ColumnCollection = "collection"
)

// RosterRow is one member as found in a collection's listing.
type RosterRow struct {
	Member     string
	Collection string
	Attributes map[string]any
}

// MetricTable holds one fixed-width record per member that has one.
type MetricTable struct {
	Columns []string
	Records map[string][]float64
}

// Row is a member joined with its metric record. Metrics is nil when the
// member has no record, which reads as null in every metric column.
type Row struct {
	Member     string
	Collection string
	Attributes map[string]any
	Metrics    []float64
}

type Table struct {
	MetricColumns []string
	Rows          []Row
}

// HasMetrics reports whether the row matched a metric record.
func (r Row) HasMetrics() bool {
	return r.Metrics != nil
}

// Value returns the value of a column for this row, nil means null.
func (t Table) Value(r Row, column string) any {
	switch column {
	case ColumnMember:
		return r.Member
	case ColumnCollection:
		return r.Collection
	}
	if i := slices.Index(t.MetricColumns, column); i >= 0 {
		if r.Metrics == nil {
			return nil
		}
		return r.Metrics[i]
	}
	return r.Attributes[column]
}

// AttributeColumns is the sorted union of attribute names across every row.
func (t Table) AttributeColumns() []string {
	seen := map[string]struct{}{}
	for _, row := range t.Rows {
		for name := range row.Attributes {
			if name == ColumnMember || name == ColumnCollection || slices.Contains(t.MetricColumns, name) {
				continue
			}
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Columns lists every column in output order: identity, collection, the
// attributes, then the metric schema.
func (t Table) Columns() []string {
	columns := []string{ColumnMember, ColumnCollection}
	columns = append(columns, t.AttributeColumns()...)
	columns = append(columns, t.MetricColumns...)
	return columns
}

// Find returns the row for a member.
func (t Table) Find(member string) (Row, bool) {
	for _, row := range t.Rows {
		if row.Member == member {
			return row, true
		}
	}
	return Row{}, false
}

// Members lists the member of every row in row order.
func (t Table) Members() []string {
	members := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		members[i] = row.Member
	}
	return members
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
