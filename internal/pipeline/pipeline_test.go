package pipeline

import (
	"context"
	"hoopstats/internal/components/chrono"
	"hoopstats/internal/components/telemetry"
	"hoopstats/internal/normalize"
	"hoopstats/internal/scrapers/espn"
	"hoopstats/internal/scrapers/espn/espntest"
	"hoopstats/internal/table"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)

func newTestPipeline(fetcher *espntest.Fetcher, policy CollisionPolicy) (Pipeline, *telemetry.Recorder) {
	recorder := &telemetry.Recorder{}
	scraper := espn.NewScraper(fetcher, espntest.Endpoints, recorder)
	return New(scraper, Options{
		CollisionPolicy: policy,
		Chrono:          chrono.FixedImpl{Time: testTime},
	}, recorder), recorder
}

func TestRun(t *testing.T) {
	pipeline, recorder := newTestPipeline(espntest.NewFetcher(), "")

	result, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{
		"Jayson Tatum", "Short Row", "No Id",
		"Stephen Curry", "Klay Thompson", "Rookie Guy",
	}, result.Table.Members())

	diff := cmp.Diff(Summary{
		StartedAt:         testTime,
		FinishedAt:        testTime,
		Collections:       2,
		Members:           6,
		WithCareer:        3,
		MalformedRecords:  1,
		SchemaMismatches:  1,
		NoHistory:         1,
		MissingID:         1,
		UnparseableFields: 1,
	}, result.Summary, cmpopts.IgnoreFields(Summary{}, "RunID"))
	if diff != "" {
		t.Fatal(diff)
	}
	require.NotEqual(t, [16]byte{}, [16]byte(result.Summary.RunID))

	require.Len(t, result.Failures, 1)
	require.Equal(t, "Jayson Tatum", result.Failures[0].Member)
	require.Equal(t, "height", result.Failures[0].Field)
	require.ErrorIs(t, result.Failures[0].Err, normalize.ErrUnparseableField)

	require.EqualValues(t, 6, recorder.Count(report_pipeline_members))
	require.EqualValues(t, 3, recorder.Count(report_pipeline_with_career))
	require.EqualValues(t, 3, recorder.Count(report_pipeline_skipped))
}

func TestRunRows(t *testing.T) {
	pipeline, _ := newTestPipeline(espntest.NewFetcher(), "")
	result, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	tbl := result.Table

	curry, ok := tbl.Find("Stephen Curry")
	require.True(t, ok)
	require.Equal(t, "golden-state-warriors", curry.Collection)
	require.Equal(t, 75.0, tbl.Value(curry, "height"))
	require.Equal(t, 185.0, tbl.Value(curry, "weight"))
	require.Equal(t, int64(45780966), tbl.Value(curry, "salary"))
	require.Equal(t, 23.5, tbl.Value(curry, "PTS"))
	require.Equal(t, 17.1, tbl.Value(curry, "FGA"))

	rookie, ok := tbl.Find("Rookie Guy")
	require.True(t, ok)
	require.False(t, rookie.HasMetrics())
	require.Nil(t, tbl.Value(rookie, "PTS"))
	require.Equal(t, int64(1445697), tbl.Value(rookie, "salary"))

	tatum, ok := tbl.Find("Jayson Tatum")
	require.True(t, ok)
	require.Contains(t, tatum.Attributes, "height")
	require.Nil(t, tbl.Value(tatum, "height"))
	require.Equal(t, 22.1, tbl.Value(tatum, "PTS"))

	shortRow, ok := tbl.Find("Short Row")
	require.True(t, ok)
	require.False(t, shortRow.HasMetrics())

	// rows without a career record are not counted as zeros
	means := table.ComputeGroupMeans(tbl, table.ColumnCollection)
	require.Len(t, means.Groups, 2)
	warriors := means.Groups[1]
	require.Equal(t, "golden-state-warriors", warriors.Group)
	require.InDelta(t, (23.5+19.5)/2, warriors.Means["PTS"], 1e-9)
}

func TestRunIdempotent(t *testing.T) {
	first, _ := newTestPipeline(espntest.NewFetcher(), "")
	second, _ := newTestPipeline(espntest.NewFetcher(), "")

	a, err := first.Run(context.Background())
	require.NoError(t, err)
	b, err := second.Run(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(a.Table, b.Table); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff(a.Summary, b.Summary, cmpopts.IgnoreFields(Summary{}, "RunID")); diff != "" {
		t.Fatal(diff)
	}
	require.NotEqual(t, a.Summary.RunID, b.Summary.RunID)
}

// bos also lists Stephen Curry, who is found again later in gs.
func collidingFetcher() *espntest.Fetcher {
	fetcher := espntest.NewFetcher()
	fetcher.Docs[espntest.Endpoints.RosterURL("bos", "boston-celtics")] = `<html><body><script>` +
		`{"athletes":[` +
		`{"name":"Stephen Curry","href":"https://www.espn.com/nba/player/_/id/3975/stephen-curry","id":"3975","salary":"$1"},` +
		`{"name":"Jayson Tatum","href":"https://www.espn.com/nba/player/_/id/4065648/jayson-tatum","id":"4065648"}` +
		`]}</script></body></html>`
	return fetcher
}

func TestRunCollisionPolicies(t *testing.T) {
	t.Run("last write wins", func(t *testing.T) {
		pipeline, recorder := newTestPipeline(collidingFetcher(), CollisionLastWriteWins)
		result, err := pipeline.Run(context.Background())
		require.NoError(t, err)

		require.Equal(t, []string{
			"Stephen Curry", "Jayson Tatum", "Klay Thompson", "Rookie Guy",
		}, result.Table.Members())
		curry, _ := result.Table.Find("Stephen Curry")
		require.Equal(t, "golden-state-warriors", curry.Collection)
		require.Equal(t, int64(45780966), curry.Attributes["salary"])
		require.Equal(t, 1, result.Summary.Collisions)

		var collisions int
		for _, report := range recorder.Reports("warning") {
			if report.ID == report_pipeline_collision {
				collisions++
			}
		}
		require.Equal(t, 1, collisions)
	})

	t.Run("error", func(t *testing.T) {
		pipeline, _ := newTestPipeline(collidingFetcher(), CollisionError)
		_, err := pipeline.Run(context.Background())
		require.ErrorIs(t, err, ErrMemberCollision)
		require.ErrorContains(t, err, "Stephen Curry")
	})

	t.Run("disambiguate", func(t *testing.T) {
		pipeline, _ := newTestPipeline(collidingFetcher(), CollisionDisambiguate)
		result, err := pipeline.Run(context.Background())
		require.NoError(t, err)

		require.Equal(t, []string{
			"Stephen Curry", "Jayson Tatum",
			"Stephen Curry (golden-state-warriors)", "Klay Thompson", "Rookie Guy",
		}, result.Table.Members())
		for _, member := range []string{"Stephen Curry", "Stephen Curry (golden-state-warriors)"} {
			row, ok := result.Table.Find(member)
			require.True(t, ok)
			require.True(t, row.HasMetrics(), member)
		}
		require.Equal(t, 1, result.Summary.Collisions)
	})
}

// bos lists Stephen Curry with two fields that fail to normalize, gs lists him
// again with clean fields.
func unparseableCollisionFetcher() *espntest.Fetcher {
	fetcher := espntest.NewFetcher()
	fetcher.Docs[espntest.Endpoints.RosterURL("bos", "boston-celtics")] = `<html><body><script>` +
		`{"athletes":[` +
		`{"name":"Stephen Curry","href":"https://www.espn.com/nba/player/_/id/3975/stephen-curry","id":"3975","height":"tall","salary":"&nbsp;"},` +
		`{"name":"Jayson Tatum","href":"https://www.espn.com/nba/player/_/id/4065648/jayson-tatum","id":"4065648","height":"6' 8\""}` +
		`]}</script></body></html>`
	return fetcher
}

func TestRunCollisionFailures(t *testing.T) {
	testCases := []struct {
		name     string
		policy   CollisionPolicy
		expected []string
	}{
		{name: "replaced row drops its failures", policy: CollisionLastWriteWins},
		{
			name:     "kept row keeps its failures",
			policy:   CollisionDisambiguate,
			expected: []string{"Stephen Curry/height", "Stephen Curry/salary"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			pipeline, _ := newTestPipeline(unparseableCollisionFetcher(), test.policy)
			result, err := pipeline.Run(context.Background())
			require.NoError(t, err)

			var failed []string
			for _, failure := range result.Failures {
				failed = append(failed, failure.Member+"/"+failure.Field)
			}
			require.ElementsMatch(t, test.expected, failed)
			require.Equal(t, len(test.expected), result.Summary.UnparseableFields)
			require.Equal(t, 1, result.Summary.Collisions)
		})
	}
}

func TestRunReportsNoHistory(t *testing.T) {
	pipeline, recorder := newTestPipeline(espntest.NewFetcher(), "")
	_, err := pipeline.Run(context.Background())
	require.NoError(t, err)

	var members []any
	for _, report := range recorder.Reports("debug") {
		if report.ID == report_pipeline_no_history {
			members = append(members, report.Params...)
		}
	}
	require.Equal(t, []any{"Rookie Guy"}, members)
}

func TestRunFatal(t *testing.T) {
	t.Run("no collections", func(t *testing.T) {
		fetcher := espntest.NewFetcher()
		fetcher.Docs[espntest.Endpoints.Teams] = "<html><script>{}</script></html>"
		pipeline, _ := newTestPipeline(fetcher, "")

		_, err := pipeline.Run(context.Background())
		require.ErrorIs(t, err, espn.ErrNoCollectionsFound)
	})

	t.Run("fetch failure", func(t *testing.T) {
		fetcher := espntest.NewFetcher()
		delete(fetcher.Docs, espntest.Endpoints.StatsURL("6475"))
		pipeline, _ := newTestPipeline(fetcher, "")

		_, err := pipeline.Run(context.Background())
		require.ErrorContains(t, err, "career of Klay Thompson")
		require.ErrorContains(t, err, "404")
	})

	t.Run("canceled", func(t *testing.T) {
		pipeline, _ := newTestPipeline(espntest.NewFetcher(), "")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pipeline.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseCollisionPolicy(t *testing.T) {
	testCases := []struct {
		input    string
		expected CollisionPolicy
		fails    bool
	}{
		{input: "", expected: CollisionLastWriteWins},
		{input: "last-write-wins", expected: CollisionLastWriteWins},
		{input: "error", expected: CollisionError},
		{input: "disambiguate", expected: CollisionDisambiguate},
		{input: "first-wins", fails: true},
	}

	for _, test := range testCases {
		policy, err := ParseCollisionPolicy(test.input)
		if test.fails {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, test.expected, policy)
	}
}
