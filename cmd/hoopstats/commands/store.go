package commands

import (
	"context"
	"hoopstats/internal/pipeline"
	"hoopstats/internal/runstore"
	"hoopstats/internal/table"

	"github.com/google/uuid"
)

func openStore(ctx context.Context) (runstore.Store, func(), error) {
	database, err := config.Database.OpenDB()
	if err != nil {
		return runstore.Store{}, nil, err
	}
	err = runstore.Migrate(ctx, database)
	if err != nil {
		database.Close()
		return runstore.Store{}, nil, err
	}
	return runstore.NewStore(database, tel), func() { database.Close() }, nil
}

// loadRun loads the table of the run with the given id, or of the latest run
// when id is empty.
func loadRun(ctx context.Context, id string) (table.Table, pipeline.Summary, error) {
	store, closeStore, err := openStore(ctx)
	if err != nil {
		return table.Table{}, pipeline.Summary{}, err
	}
	defer closeStore()

	var runID uuid.UUID
	if id == "" {
		runID, err = store.LatestRunID(ctx)
	} else {
		runID, err = uuid.Parse(id)
	}
	if err != nil {
		return table.Table{}, pipeline.Summary{}, err
	}

	summary, err := store.LoadSummary(ctx, runID)
	if err != nil {
		return table.Table{}, pipeline.Summary{}, err
	}
	t, err := store.LoadTable(ctx, runID)
	if err != nil {
		return table.Table{}, pipeline.Summary{}, err
	}
	return t, summary, nil
}
