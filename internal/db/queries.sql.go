package db

import (
	"context"
	"database/sql"
)

const createMember = `-- name: CreateMember :exec
insert into members(run_id, position, member, collection, attributes, metrics)
values (?, ?, ?, ?, ?, ?)
`

type CreateMemberParams struct {
	RunID      string
	Position   int64
	Member     string
	Collection string
	Attributes string
	Metrics    sql.NullString
}

func (q *Queries) CreateMember(ctx context.Context, arg CreateMemberParams) error {
	_, err := q.db.ExecContext(ctx, createMember,
		arg.RunID,
		arg.Position,
		arg.Member,
		arg.Collection,
		arg.Attributes,
		arg.Metrics,
	)
	return err
}

const createRun = `-- name: CreateRun :exec
insert into runs(
    id, started_at, finished_at,
    collections, members, with_career,
    malformed_records, schema_mismatches, no_history,
    missing_id, unparseable_fields, collisions,
    metric_columns
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateRunParams struct {
	ID                string
	StartedAt         int64
	FinishedAt        int64
	Collections       int64
	Members           int64
	WithCareer        int64
	MalformedRecords  int64
	SchemaMismatches  int64
	NoHistory         int64
	MissingID         int64
	UnparseableFields int64
	Collisions        int64
	MetricColumns     string
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun,
		arg.ID,
		arg.StartedAt,
		arg.FinishedAt,
		arg.Collections,
		arg.Members,
		arg.WithCareer,
		arg.MalformedRecords,
		arg.SchemaMismatches,
		arg.NoHistory,
		arg.MissingID,
		arg.UnparseableFields,
		arg.Collisions,
		arg.MetricColumns,
	)
	return err
}

const deleteRun = `-- name: DeleteRun :exec
delete from runs where id = ?
`

func (q *Queries) DeleteRun(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteRun, id)
	return err
}

const getLatestRunID = `-- name: GetLatestRunID :one
select id from runs
order by started_at desc, rowid desc
limit 1
`

func (q *Queries) GetLatestRunID(ctx context.Context) (string, error) {
	row := q.db.QueryRowContext(ctx, getLatestRunID)
	var id string
	err := row.Scan(&id)
	return id, err
}

const getMembers = `-- name: GetMembers :many
select run_id, position, member, collection, attributes, metrics from members
where run_id = ?
order by position asc
`

func (q *Queries) GetMembers(ctx context.Context, runID string) ([]Member, error) {
	rows, err := q.db.QueryContext(ctx, getMembers, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Member
	for rows.Next() {
		var i Member
		if err := rows.Scan(
			&i.RunID,
			&i.Position,
			&i.Member,
			&i.Collection,
			&i.Attributes,
			&i.Metrics,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRun = `-- name: GetRun :one
select id, started_at, finished_at, collections, members, with_career, malformed_records, schema_mismatches, no_history, missing_id, unparseable_fields, collisions, metric_columns from runs where id = ?
`

func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	row := q.db.QueryRowContext(ctx, getRun, id)
	var i Run
	err := row.Scan(
		&i.ID,
		&i.StartedAt,
		&i.FinishedAt,
		&i.Collections,
		&i.Members,
		&i.WithCareer,
		&i.MalformedRecords,
		&i.SchemaMismatches,
		&i.NoHistory,
		&i.MissingID,
		&i.UnparseableFields,
		&i.Collisions,
		&i.MetricColumns,
	)
	return i, err
}

const listRuns = `-- name: ListRuns :many
select id, started_at, finished_at, collections, members, with_career, malformed_records, schema_mismatches, no_history, missing_id, unparseable_fields, collisions, metric_columns from runs
order by started_at desc, rowid desc
`

func (q *Queries) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(
			&i.ID,
			&i.StartedAt,
			&i.FinishedAt,
			&i.Collections,
			&i.Members,
			&i.WithCareer,
			&i.MalformedRecords,
			&i.SchemaMismatches,
			&i.NoHistory,
			&i.MissingID,
			&i.UnparseableFields,
			&i.Collisions,
			&i.MetricColumns,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteMembers = `-- name: DeleteMembers :exec
delete from members where run_id = ?
`

func (q *Queries) DeleteMembers(ctx context.Context, runID string) error {
	_, err := q.db.ExecContext(ctx, deleteMembers, runID)
	return err
}
