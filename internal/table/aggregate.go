package table

import (
	"fmt"
	"slices"
	"strings"
)

// GroupMean is the mean of every numeric column within one group. A column is
// missing from Means when no row of the group has a value for it.
type GroupMean struct {
	Group string
	Rows  int
	Means map[string]float64
}

type GroupMeans struct {
	GroupKey string
	Columns  []string
	Groups   []GroupMean
}

// NumericColumns lists the columns whose non-null values are all numbers,
// ignoring columns with no values at all and the member identity.
func (t Table) NumericColumns() []string {
	var numeric []string
	for _, column := range t.Columns() {
		if column == ColumnMember || column == ColumnCollection {
			continue
		}
		present := false
		allNumbers := true
		for _, row := range t.Rows {
			value := t.Value(row, column)
			if value == nil {
				continue
			}
			present = true
			if _, ok := toFloat(value); !ok {
				allNumbers = false
				break
			}
		}
		if present && allNumbers {
			numeric = append(numeric, column)
		}
	}
	return numeric
}

func groupName(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if str, ok := value.(string); ok {
		return str, true
	}
	return fmt.Sprint(value), true
}

// ComputeGroupMeans averages every numeric column per distinct value of
// groupKey. Null values, including the metric columns of members without a
// metric record, are left out of both the sum and the count rather than
// treated as zero. Rows with a null group are skipped. Groups are sorted by
// name.
func ComputeGroupMeans(t Table, groupKey string) GroupMeans {
	columns := slices.DeleteFunc(t.NumericColumns(), func(c string) bool {
		return c == groupKey
	})

	type accumulator struct {
		rows   int
		sums   map[string]float64
		counts map[string]int
	}
	groups := map[string]*accumulator{}
	var order []string

	for _, row := range t.Rows {
		name, ok := groupName(t.Value(row, groupKey))
		if !ok {
			continue
		}
		acc, exists := groups[name]
		if !exists {
			acc = &accumulator{sums: map[string]float64{}, counts: map[string]int{}}
			groups[name] = acc
			order = append(order, name)
		}
		acc.rows++
		for _, column := range columns {
			value, ok := toFloat(t.Value(row, column))
			if !ok {
				continue
			}
			acc.sums[column] += value
			acc.counts[column]++
		}
	}

	slices.Sort(order)
	result := GroupMeans{GroupKey: groupKey, Columns: columns}
	for _, name := range order {
		acc := groups[name]
		means := map[string]float64{}
		for column, sum := range acc.sums {
			means[column] = sum / float64(acc.counts[column])
		}
		result.Groups = append(result.Groups, GroupMean{
			Group: name,
			Rows:  acc.rows,
			Means: means,
		})
	}
	return result
}

// Ranked is a single entry of a ranking.
type Ranked struct {
	Member string
	Value  float64
	Group  string
}

func (t Table) ranked(column string) []Ranked {
	var out []Ranked
	for _, row := range t.Rows {
		value, ok := toFloat(t.Value(row, column))
		if !ok {
			continue
		}
		out = append(out, Ranked{
			Member: row.Member,
			Value:  value,
			Group:  row.Collection,
		})
	}
	return out
}

func descending(a, b Ranked) int {
	switch {
	case a.Value > b.Value:
		return -1
	case a.Value < b.Value:
		return 1
	default:
		return 0
	}
}

// TopN ranks the rows by column in descending order and keeps the first n.
// Ties keep their row order, rows with a null or non-numeric value are left
// out.
func TopN(t Table, column string, n int) []Ranked {
	if n <= 0 {
		return nil
	}
	ranking := t.ranked(column)
	slices.SortStableFunc(ranking, descending)
	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

// TopPerGroup returns the highest ranked row of every collection, ordered by
// value in descending order. The first row wins a tie within a collection.
func TopPerGroup(t Table, column string) []Ranked {
	best := map[string]Ranked{}
	var order []string
	for _, entry := range t.ranked(column) {
		current, exists := best[entry.Group]
		if !exists {
			order = append(order, entry.Group)
		}
		if !exists || entry.Value > current.Value {
			best[entry.Group] = entry
		}
	}

	out := make([]Ranked, len(order))
	for i, group := range order {
		out[i] = best[group]
	}
	slices.SortStableFunc(out, descending)
	return out
}

// ParseColumn matches a column name case insensitively against the table's
// columns, so `fg%` finds `FG%`.
func (t Table) ParseColumn(name string) (string, bool) {
	for _, column := range t.Columns() {
		if strings.EqualFold(column, name) {
			return column, true
		}
	}
	return "", false
}
