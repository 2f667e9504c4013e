package commands

import (
	"fmt"
	"hoopstats/internal/pipeline"
	"io"
	"strconv"
	"time"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) prettytable.Writer {
	t := prettytable.NewWriter()
	t.SetStyle(prettytable.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}

func printSummary(out io.Writer, summary pipeline.Summary) {
	t := newTable(out)
	t.SetTitle(fmt.Sprintf("run %s", summary.RunID))
	t.AppendRows([]prettytable.Row{
		{"started", summary.StartedAt.Format(time.DateTime)},
		{"took", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String()},
		{"collections", summary.Collections},
		{"members", summary.Members},
		{"with career", summary.WithCareer},
		{"malformed records", summary.MalformedRecords},
		{"schema mismatches", summary.SchemaMismatches},
		{"no history", summary.NoHistory},
		{"missing id", summary.MissingID},
		{"unparseable fields", summary.UnparseableFields},
		{"collisions", summary.Collisions},
	})
	t.Render()
}
