package espn

import (
	"errors"
	"fmt"
	"hoopstats/internal/extract"
	"hoopstats/internal/normalize"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ErrSchemaMismatch means a stat row did not have the shape of its schema.
var ErrSchemaMismatch = errors.New("schema mismatch")

// StatSchema is the ordered list of fields of a stat row. Composite holds the
// raw positions of "made-attempted" entries, each of which expands into two
// fields.
type StatSchema struct {
	Fields    []string
	Composite []int
}

// CareerSchema is the layout of the career averages row on a player's stats page.
var CareerSchema = StatSchema{
	Fields: []string{
		"GP", "GS", "MIN",
		"FGM", "FGA", "FG%",
		"3PTM", "3PTA", "3P%",
		"FTM", "FTA", "FT%",
		"OR", "DR", "REB",
		"AST", "BLK", "STL",
		"PF", "TO", "PTS",
	},
	Composite: []int{3, 5, 7},
}

// RawWidth is the number of entries in an unexpanded row.
func (s StatSchema) RawWidth() int {
	return len(s.Fields) - len(s.Composite)
}

// Expand splits the composite entries of a raw row and parses every value.
// Every value must be finite. Only the declared composite positions are split, so a hyphen anywhere else
// fails to parse instead of being split.
func (s StatSchema) Expand(raw []string) ([]float64, error) {
	if len(raw) != s.RawWidth() {
		return nil, fmt.Errorf("%w: expected %d entries, got %d", ErrSchemaMismatch, s.RawWidth(), len(raw))
	}

	values := make([]float64, 0, len(s.Fields))
	for i, entry := range raw {
		if slices.Contains(s.Composite, i) {
			made, attempted, err := normalize.SplitComposite(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d: %w", ErrSchemaMismatch, i, err)
			}
			values = append(values, made, attempted)
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(entry), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", extract.ErrMalformedRecord, i, err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%w: entry %d: %q is not a finite number", extract.ErrMalformedRecord, i, entry)
		}
		values = append(values, value)
	}

	if len(values) != len(s.Fields) {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrSchemaMismatch, len(s.Fields), len(values))
	}
	return values, nil
}

// ex. `["Career","","699","693","34.3","8.1-17.1",...,"23.5"]},{"ttl":"Regular Season Totals"`
var careerRow = extract.MustPatternExtractor(`\["Career","",(.*?)\]\},\{"ttl":"Regular Season Totals"`)

// SplitRaw turns the body of a stat row into its unquoted entries.
func SplitRaw(body string) []string {
	return strings.Split(strings.ReplaceAll(body, `"`, ""), ",")
}

func assembleCareer(text string) (values []float64, matches int, err error) {
	var body string
	for fragment := range careerRow.Extract(text) {
		if matches == 0 {
			body = fragment.Body
		}
		matches++
	}
	if matches == 0 {
		return nil, 0, nil
	}
	values, err = CareerSchema.Expand(SplitRaw(body))
	return values, matches, err
}

// AssembleCareer extracts the career averages row of a detail document. found
// is false when the document has no career row, which means the member has
// not played yet and must not be treated as a row of zeros.
func AssembleCareer(text string) (values []float64, found bool, err error) {
	values, matches, err := assembleCareer(text)
	return values, matches > 0, err
}
