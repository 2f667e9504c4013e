package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

// FormatValue renders a cell as text, null is the empty string.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		serialized, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(serialized)
	}
}

func (t Table) writer(out io.Writer) prettytable.Writer {
	columns := t.Columns()

	header := make(prettytable.Row, len(columns))
	for i, column := range columns {
		header[i] = column
	}

	w := prettytable.NewWriter()
	w.SetOutputMirror(out)
	w.AppendHeader(header)
	for _, row := range t.Rows {
		cells := make(prettytable.Row, len(columns))
		for i, column := range columns {
			cells[i] = FormatValue(t.Value(row, column))
		}
		w.AppendRow(cells)
	}
	return w
}

// WriteCSV writes the whole table, header first, as comma separated values.
func WriteCSV(out io.Writer, t Table) {
	t.writer(out).RenderCSV()
}
