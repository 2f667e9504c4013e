// Package runstore persists the tables built by pipeline runs so they can be
// queried without scraping again.
package runstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hoopstats/internal/components/assert"
	"hoopstats/internal/components/telemetry"
	"hoopstats/internal/db"
	"hoopstats/internal/pipeline"
	"hoopstats/internal/table"
	"time"

	"github.com/google/uuid"
)

const (
	report_db_query = "db.query"
	report_save_run = "runstore.save-run"
)

// ErrNoRuns is returned when the database does not hold a single run yet.
var ErrNoRuns = errors.New("no runs saved yet, run `hoopstats scrape` first")

type Store struct {
	qry    *db.Queries
	makeTx db.MakeTx
	tel    telemetry.API
}

func NewStore(database *sql.DB, tel telemetry.API) Store {
	assert.NotNil(database)
	assert.NotNil(tel)

	return Store{
		qry:    db.New(database),
		makeTx: db.NewMakeTx(database),
		tel:    telemetry.NewScopedAPI("runstore", tel),
	}
}

// Migrate creates the tables if they don't exist yet.
func Migrate(ctx context.Context, database *sql.DB) error {
	_, err := database.ExecContext(ctx, db.Schema)
	return err
}

// SaveRun writes the table and summary of a run in a single transaction.
func (s Store) SaveRun(ctx context.Context, result pipeline.Result) error {
	summary := result.Summary
	metricColumns, err := json.Marshal(result.Table.MetricColumns)
	if err != nil {
		return err
	}

	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return err
	}
	defer discard()

	err = tx.CreateRun(ctx, db.CreateRunParams{
		ID:                summary.RunID.String(),
		StartedAt:         summary.StartedAt.UnixMilli(),
		FinishedAt:        summary.FinishedAt.UnixMilli(),
		Collections:       int64(summary.Collections),
		Members:           int64(summary.Members),
		WithCareer:        int64(summary.WithCareer),
		MalformedRecords:  int64(summary.MalformedRecords),
		SchemaMismatches:  int64(summary.SchemaMismatches),
		NoHistory:         int64(summary.NoHistory),
		MissingID:         int64(summary.MissingID),
		UnparseableFields: int64(summary.UnparseableFields),
		Collisions:        int64(summary.Collisions),
		MetricColumns:     string(metricColumns),
	})
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "CreateRun", summary.RunID)
		return err
	}

	for i, row := range result.Table.Rows {
		attributes, err := json.Marshal(row.Attributes)
		if err != nil {
			return fmt.Errorf("attributes of %s: %w", row.Member, err)
		}
		var metrics sql.NullString
		if row.HasMetrics() {
			encoded, err := json.Marshal(row.Metrics)
			if err != nil {
				return fmt.Errorf("metrics of %s: %w", row.Member, err)
			}
			metrics = sql.NullString{String: string(encoded), Valid: true}
		}

		err = tx.CreateMember(ctx, db.CreateMemberParams{
			RunID:      summary.RunID.String(),
			Position:   int64(i),
			Member:     row.Member,
			Collection: row.Collection,
			Attributes: string(attributes),
			Metrics:    metrics,
		})
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "CreateMember", summary.RunID, row.Member)
			return err
		}
	}

	err = commit()
	if err != nil {
		return err
	}
	s.tel.ReportCount(report_save_run, int64(len(result.Table.Rows)))
	return nil
}

// LatestRunID returns the id of the most recently started run.
func (s Store) LatestRunID(ctx context.Context) (uuid.UUID, error) {
	id, err := s.qry.GetLatestRunID(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrNoRuns
	}
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetLatestRunID")
		return uuid.Nil, err
	}
	return uuid.Parse(id)
}

func summaryFromRow(run db.Run) (pipeline.Summary, error) {
	id, err := uuid.Parse(run.ID)
	if err != nil {
		return pipeline.Summary{}, err
	}
	return pipeline.Summary{
		RunID:             id,
		StartedAt:         time.UnixMilli(run.StartedAt).UTC(),
		FinishedAt:        time.UnixMilli(run.FinishedAt).UTC(),
		Collections:       int(run.Collections),
		Members:           int(run.Members),
		WithCareer:        int(run.WithCareer),
		MalformedRecords:  int(run.MalformedRecords),
		SchemaMismatches:  int(run.SchemaMismatches),
		NoHistory:         int(run.NoHistory),
		MissingID:         int(run.MissingID),
		UnparseableFields: int(run.UnparseableFields),
		Collisions:        int(run.Collisions),
	}, nil
}

// LoadSummary returns the summary a run was saved with.
func (s Store) LoadSummary(ctx context.Context, runID uuid.UUID) (pipeline.Summary, error) {
	run, err := s.qry.GetRun(ctx, runID.String())
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRun", runID)
		return pipeline.Summary{}, err
	}
	return summaryFromRow(run)
}

// ListSummaries returns the summary of every saved run, newest first.
func (s Store) ListSummaries(ctx context.Context) ([]pipeline.Summary, error) {
	runs, err := s.qry.ListRuns(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "ListRuns")
		return nil, err
	}
	summaries := make([]pipeline.Summary, len(runs))
	for i, run := range runs {
		summaries[i], err = summaryFromRow(run)
		if err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

// LoadTable rebuilds the table of a run. Whole numbers in attributes come back
// as int64 and every other number as float64.
func (s Store) LoadTable(ctx context.Context, runID uuid.UUID) (table.Table, error) {
	run, err := s.qry.GetRun(ctx, runID.String())
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRun", runID)
		return table.Table{}, err
	}
	var metricColumns []string
	err = json.Unmarshal([]byte(run.MetricColumns), &metricColumns)
	if err != nil {
		return table.Table{}, fmt.Errorf("metric columns of run %s: %w", runID, err)
	}

	members, err := s.qry.GetMembers(ctx, runID.String())
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetMembers", runID)
		return table.Table{}, err
	}

	rows := make([]table.Row, len(members))
	for i, member := range members {
		attributes, err := decodeAttributes(member.Attributes)
		if err != nil {
			return table.Table{}, fmt.Errorf("attributes of %s: %w", member.Member, err)
		}
		var metrics []float64
		if member.Metrics.Valid {
			err = json.Unmarshal([]byte(member.Metrics.String), &metrics)
			if err != nil {
				return table.Table{}, fmt.Errorf("metrics of %s: %w", member.Member, err)
			}
		}
		rows[i] = table.Row{
			Member:     member.Member,
			Collection: member.Collection,
			Attributes: attributes,
			Metrics:    metrics,
		}
	}

	return table.Table{
		MetricColumns: metricColumns,
		Rows:          rows,
	}, nil
}

// DeleteRun removes a run and its members.
func (s Store) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return err
	}
	defer discard()

	err = tx.DeleteMembers(ctx, runID.String())
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "DeleteMembers", runID)
		return err
	}
	err = tx.DeleteRun(ctx, runID.String())
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "DeleteRun", runID)
		return err
	}
	return commit()
}

func decodeAttributes(encoded string) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(encoded)))
	decoder.UseNumber()

	var attributes map[string]any
	err := decoder.Decode(&attributes)
	if err != nil {
		return nil, err
	}
	for key, value := range attributes {
		attributes[key] = fromJSONNumber(value)
	}
	return attributes, nil
}

// fromJSONNumber replaces json.Number, including in nested values, with int64
// when the number is whole and float64 otherwise.
func fromJSONNumber(value any) any {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for key, inner := range v {
			v[key] = fromJSONNumber(inner)
		}
		return v
	case []any:
		for i, inner := range v {
			v[i] = fromJSONNumber(inner)
		}
		return v
	default:
		return value
	}
}
