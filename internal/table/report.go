package table

import (
	"cmp"
	"slices"
)

// GroupReport is a column summarized within one collection: its mean and the
// row holding its highest value.
type GroupReport struct {
	Group string
	Mean  float64
	Top   Ranked
}

// ReportByGroup summarizes column for every collection that has at least one
// value for it, ordered by mean in ascending order. The salary report is
// ReportByGroup(t, "salary").
func ReportByGroup(t Table, column string) []GroupReport {
	means := ComputeGroupMeans(t, ColumnCollection)
	top := map[string]Ranked{}
	for _, entry := range TopPerGroup(t, column) {
		top[entry.Group] = entry
	}

	var reports []GroupReport
	for _, group := range means.Groups {
		mean, ok := group.Means[column]
		if !ok {
			continue
		}
		reports = append(reports, GroupReport{
			Group: group.Group,
			Mean:  mean,
			Top:   top[group.Group],
		})
	}
	slices.SortStableFunc(reports, func(a, b GroupReport) int {
		return cmp.Compare(a.Mean, b.Mean)
	})
	return reports
}
