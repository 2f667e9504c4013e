package table

// Join left-outer joins the roster rows with the metric table on member
// name. Every roster row is kept in its original order, rows without a metric
// record get nil Metrics.
func Join(roster []RosterRow, metrics MetricTable) Table {
	rows := make([]Row, len(roster))
	for i, member := range roster {
		rows[i] = Row{
			Member:     member.Member,
			Collection: member.Collection,
			Attributes: member.Attributes,
			Metrics:    metrics.Records[member.Member],
		}
	}
	return Table{
		MetricColumns: metrics.Columns,
		Rows:          rows,
	}
}
