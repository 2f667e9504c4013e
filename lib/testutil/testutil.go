package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"hoopstats/lib/telemetry"
	"testing"

	_ "modernc.org/sqlite"
)

type DBParams struct {
	Name string
	// if unspecified, it will skip creating tables
	Schema string
}

// SetupDB opens an in-memory sqlite database and sets up telemetry for the
// test, both are torn down with the test.
func SetupDB(t testing.TB, params DBParams) *sql.DB {
	t.Helper()
	cleanup := telemetry.SetupForTesting(fmt.Sprintf("test:%s", params.Name))
	t.Cleanup(cleanup)

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is a separate database
	sqlite.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlite.Close() })

	if params.Schema != "" {
		_, err = sqlite.ExecContext(context.Background(), params.Schema)
		if err != nil {
			t.Fatal(err)
		}
	}
	return sqlite
}
