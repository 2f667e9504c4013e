package espn

import (
	"hoopstats/internal/extract"
	"hoopstats/internal/normalize"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func careerDocument(entries ...string) string {
	quoted := make([]string, len(entries))
	for i, e := range entries {
		quoted[i] = `"` + e + `"`
	}
	return `{"stats":[{"ttl":"Averages","totals":["Career","",` +
		strings.Join(quoted, ",") +
		`]},{"ttl":"Regular Season Totals","totals":[]}]}`
}

var curryRaw = []string{"699", "693", "34.3", "8.1-17.1", "47.6", "3.6-8.2", "43.5", "3.7-4.0", "90.6", "0.7", "3.8", "4.5", "6.6", "0.2", "1.7", "2.5", "3.1", "23.5"}

func TestCareerSchema(t *testing.T) {
	require.Len(t, CareerSchema.Fields, 21)
	require.Equal(t, 18, CareerSchema.RawWidth())
	for _, position := range CareerSchema.Composite {
		require.Less(t, position, CareerSchema.RawWidth())
	}
}

func TestExpand(t *testing.T) {
	values, err := CareerSchema.Expand(curryRaw)
	require.NoError(t, err)
	require.Equal(t, []float64{
		699.0, 693.0, 34.3, 8.1, 17.1, 47.6, 3.6, 8.2, 43.5, 3.7, 4.0,
		90.6, 0.7, 3.8, 4.5, 6.6, 0.2, 1.7, 2.5, 3.1, 23.5,
	}, values)
	require.Len(t, values, len(CareerSchema.Fields))
}

func TestExpandFailures(t *testing.T) {
	withEntry := func(i int, value string) []string {
		raw := append([]string(nil), curryRaw...)
		raw[i] = value
		return raw
	}

	testCases := []struct {
		name     string
		raw      []string
		expected error
	}{
		{name: "too short", raw: curryRaw[:17], expected: ErrSchemaMismatch},
		{name: "too long", raw: append(append([]string(nil), curryRaw...), "1.0"), expected: ErrSchemaMismatch},
		{name: "composite without separator", raw: withEntry(3, "8.1"), expected: ErrSchemaMismatch},
		// a hyphen outside a composite position is never split
		{name: "hyphen in plain field", raw: withEntry(0, "-699"), expected: nil},
		{name: "range in plain field", raw: withEntry(1, "6-9"), expected: extract.ErrMalformedRecord},
		{name: "non numeric", raw: withEntry(17, "--"), expected: extract.ErrMalformedRecord},
		{name: "nan", raw: withEntry(0, "NaN"), expected: extract.ErrMalformedRecord},
		{name: "infinity", raw: withEntry(8, "Inf"), expected: extract.ErrMalformedRecord},
		{name: "signed infinity", raw: withEntry(17, "+Inf"), expected: extract.ErrMalformedRecord},
		{name: "nan in composite", raw: withEntry(5, "NaN-6.1"), expected: normalize.ErrUnparseableField},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			values, err := CareerSchema.Expand(test.raw)
			if test.expected == nil {
				require.NoError(t, err)
				require.Len(t, values, 21)
				return
			}
			require.ErrorIs(t, err, test.expected)
			require.Nil(t, values)
		})
	}
}

func TestAssembleCareer(t *testing.T) {
	values, found, err := AssembleCareer(careerDocument(curryRaw...))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 23.5, values[20])
	require.Equal(t, 17.1, values[4])

	values, found, err = AssembleCareer(`{"stats":[],"message":"No statistics available."}`)
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, values)

	_, found, err = AssembleCareer(careerDocument(curryRaw[:10]...))
	require.True(t, found)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestAssembleCareerUsesFirstRow(t *testing.T) {
	second := append([]string(nil), curryRaw...)
	second[0] = "1"
	document := careerDocument(curryRaw...) + careerDocument(second...)

	values, matches, err := assembleCareer(document)
	require.NoError(t, err)
	require.Equal(t, 2, matches)
	require.Equal(t, 699.0, values[0])
}

func TestSplitRaw(t *testing.T) {
	require.Equal(t, []string{"699", "8.1-17.1"}, SplitRaw(`"699","8.1-17.1"`))
}
