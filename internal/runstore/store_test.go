package runstore

import (
	"context"
	"database/sql"
	"hoopstats/internal/components/chrono"
	"hoopstats/internal/components/telemetry"
	"hoopstats/internal/db"
	"hoopstats/internal/pipeline"
	"hoopstats/internal/scrapers/espn"
	"hoopstats/internal/scrapers/espn/espntest"
	"hoopstats/lib/testutil"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	sqlite := testutil.SetupDB(t, testutil.DBParams{
		Name:   "runstore",
		Schema: db.Schema,
	})
	return NewStore(sqlite, &telemetry.Recorder{})
}

func runPipeline(t *testing.T, at time.Time) pipeline.Result {
	t.Helper()
	recorder := &telemetry.Recorder{}
	scraper := espn.NewScraper(espntest.NewFetcher(), espntest.Endpoints, recorder)
	result, err := pipeline.New(scraper, pipeline.Options{
		Chrono: chrono.FixedImpl{Time: at},
	}, recorder).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestStore(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := store.LatestRunID(ctx)
	require.ErrorIs(t, err, ErrNoRuns)

	first := runPipeline(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	second := runPipeline(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveRun(ctx, first))
	require.NoError(t, store.SaveRun(ctx, second))

	latest, err := store.LatestRunID(ctx)
	require.NoError(t, err)
	require.Equal(t, second.Summary.RunID, latest)

	summary, err := store.LoadSummary(ctx, latest)
	require.NoError(t, err)
	if diff := cmp.Diff(second.Summary, summary); diff != "" {
		t.Fatal(diff)
	}

	summaries, err := store.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, first.Summary.RunID, summaries[1].RunID)

	loaded, err := store.LoadTable(ctx, latest)
	require.NoError(t, err)
	require.Equal(t, second.Table.Members(), loaded.Members())
	require.Equal(t, second.Table.MetricColumns, loaded.MetricColumns)
	require.Equal(t, second.Table.Columns(), loaded.Columns())

	for i, row := range loaded.Rows {
		original := second.Table.Rows[i]
		require.Equal(t, original.Collection, row.Collection)
		require.Equal(t, original.Metrics, row.Metrics, row.Member)
	}

	curry, ok := loaded.Find("Stephen Curry")
	require.True(t, ok)
	require.Equal(t, int64(75), curry.Attributes["height"])
	require.Equal(t, int64(45780966), curry.Attributes["salary"])
	require.Equal(t, "PG", curry.Attributes["position"])

	tatum, ok := loaded.Find("Jayson Tatum")
	require.True(t, ok)
	require.Contains(t, tatum.Attributes, "height")
	require.Nil(t, tatum.Attributes["height"])

	rookie, ok := loaded.Find("Rookie Guy")
	require.True(t, ok)
	require.False(t, rookie.HasMetrics())
}

func TestStoreDeleteRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	result := runPipeline(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveRun(ctx, result))
	require.NoError(t, store.DeleteRun(ctx, result.Summary.RunID))

	_, err := store.LatestRunID(ctx)
	require.ErrorIs(t, err, ErrNoRuns)

	loaded, err := store.LoadTable(ctx, result.Summary.RunID)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.Empty(t, loaded.Rows)
}

func TestStoreUnknownRun(t *testing.T) {
	store := openTestStore(t)
	_, err := store.LoadSummary(context.Background(), uuid.New())
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFromJSONNumber(t *testing.T) {
	attributes, err := decodeAttributes(`{"a":75,"b":6.5,"c":"x","d":null,"e":{"f":2},"g":[1,1.5]}`)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"a": int64(75),
		"b": 6.5,
		"c": "x",
		"d": nil,
		"e": map[string]any{"f": int64(2)},
		"g": []any{int64(1), 1.5},
	}, attributes)
}

func TestMigrateTwice(t *testing.T) {
	sqlite := testutil.SetupDB(t, testutil.DBParams{Name: "runstore-migrate"})
	require.NoError(t, Migrate(context.Background(), sqlite))
	require.NoError(t, Migrate(context.Background(), sqlite))
}
