package db

import (
	"database/sql"
)

type Member struct {
	RunID      string
	Position   int64
	Member     string
	Collection string
	Attributes string
	Metrics    sql.NullString
}

type Run struct {
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
