// Package pipeline runs a full scrape: it locates every collection, assembles
// and normalizes their rosters, fetches the career record of every member and
// joins the two into one table.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"hoopstats/internal/components/assert"
	"hoopstats/internal/components/chrono"
	"hoopstats/internal/components/telemetry"
	"hoopstats/internal/extract"
	"hoopstats/internal/normalize"
	"hoopstats/internal/scrapers/espn"
	"hoopstats/internal/table"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hoopstats.internal.pipeline")
var meter = otel.Meter("hoopstats.internal.pipeline")

var membersCounter, _ = meter.Int64Counter(
	"pipeline_members_total",
	metric.WithDescription("The total amount of members written to a table."),
)
var skippedCounter, _ = meter.Int64Counter(
	"pipeline_skipped_total",
	metric.WithDescription("The total amount of records skipped, by reason."),
)

const (
	report_pipeline_collision   = "pipeline.collision"
	report_pipeline_normalize   = "pipeline.normalize"
	report_pipeline_missing_id  = "pipeline.missing-id"
	report_pipeline_no_history  = "pipeline.no-history"
	report_pipeline_career      = "pipeline.career"
	report_pipeline_members     = "pipeline.members"
	report_pipeline_with_career = "pipeline.with-career"
	report_pipeline_skipped     = "pipeline.skipped"
)

// Source provides the documents of each stage already assembled.
// espn.Scraper is the implementation used outside of tests.
type Source interface {
	Collections(ctx context.Context) ([]espn.Collection, error)
	Roster(ctx context.Context, collection espn.Collection) (espn.Roster, error)
	Career(ctx context.Context, memberID string) (values []float64, found bool, err error)
}

type Options struct {
	// Fields are the roster attributes to normalize, defaults to
	// normalize.DefaultFields when nil.
	Fields          normalize.Fields
	CollisionPolicy CollisionPolicy
	Chrono          chrono.API
}

// Summary describes a run, every record the run skipped is counted here.
type Summary struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time

	Collections int
	Members     int
	WithCareer  int

	// MalformedRecords counts roster fragments and career rows whose body
	// could not be parsed.
	MalformedRecords int
	// SchemaMismatches counts career rows with the wrong number of entries.
	SchemaMismatches int
	// NoHistory counts members without a career row.
	NoHistory int
	// MissingID counts members without an id, no career can be fetched for them.
	MissingID int
	// UnparseableFields counts attributes that were nulled by normalization.
	UnparseableFields int
	// Collisions counts member names that were already taken, within a
	// listing or across collections.
	Collisions int
}

// Skipped is the number of records that did not make it into the table intact.
func (s Summary) Skipped() int {
	return s.MalformedRecords + s.SchemaMismatches + s.MissingID
}

type Result struct {
	Table    table.Table
	Summary  Summary
	Failures []normalize.Failure
}

type Pipeline struct {
	source Source
	opts   Options
	tel    telemetry.API
}

func New(source Source, opts Options, tel telemetry.API) Pipeline {
	assert.NotNil(source)
	assert.NotNil(tel)

	if opts.Fields == nil {
		opts.Fields = normalize.DefaultFields
	}
	if opts.CollisionPolicy == "" {
		opts.CollisionPolicy = CollisionLastWriteWins
	}
	if opts.Chrono == nil {
		opts.Chrono = chrono.UTC()
	}

	return Pipeline{
		source: source,
		opts:   opts,
		tel:    tel,
	}
}

// Run rebuilds the whole table. A failed fetch or a missing teams directory
// aborts the run, any other bad record is skipped and counted in the summary.
func (p Pipeline) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	result, err := p.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(
		attribute.String("run_id", result.Summary.RunID.String()),
		attribute.Int("members", result.Summary.Members),
		attribute.Int("skipped", result.Summary.Skipped()),
	)
	return result, nil
}

func (p Pipeline) run(ctx context.Context) (Result, error) {
	summary := Summary{
		RunID:     uuid.New(),
		StartedAt: p.opts.Chrono.Now(),
	}

	collections, err := p.source.Collections(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("locate collections: %w", err)
	}
	summary.Collections = len(collections)

	rows, failures, err := p.rosterRows(ctx, collections, &summary)
	if err != nil {
		return Result{}, err
	}
	metrics, err := p.careers(ctx, rows, &summary)
	if err != nil {
		return Result{}, err
	}

	joined := table.Join(rows, metrics)

	summary.Members = len(joined.Rows)
	summary.WithCareer = len(metrics.Records)
	summary.FinishedAt = p.opts.Chrono.Now()

	p.tel.ReportCount(report_pipeline_members, int64(summary.Members))
	p.tel.ReportCount(report_pipeline_with_career, int64(summary.WithCareer))
	p.tel.ReportCount(report_pipeline_skipped, int64(summary.Skipped()))

	membersCounter.Add(ctx, int64(summary.Members))
	for reason, count := range map[string]int{
		"malformed":       summary.MalformedRecords,
		"schema_mismatch": summary.SchemaMismatches,
		"missing_id":      summary.MissingID,
	} {
		skippedCounter.Add(ctx, int64(count), metric.WithAttributes(
			attribute.String("reason", reason),
		))
	}

	return Result{
		Table:    joined,
		Summary:  summary,
		Failures: failures,
	}, nil
}

func (p Pipeline) rosterRows(ctx context.Context, collections []espn.Collection, summary *Summary) ([]table.RosterRow, []normalize.Failure, error) {
	ctx, span := tracer.Start(ctx, "rosterRows", trace.WithAttributes(
		attribute.Int("collections", len(collections)),
	))
	defer span.End()

	var rows []table.RosterRow
	// normalization failures of rows[i], replaced along with the row
	var rowFailures [][]normalize.Failure
	// member name -> index in rows
	owners := map[string]int{}

	for _, collection := range collections {
		roster, err := p.source.Roster(ctx, collection)
		if err != nil {
			return nil, nil, fmt.Errorf("roster of %s: %w", collection.Name, err)
		}
		summary.MalformedRecords += len(roster.Skipped)
		summary.Collisions += roster.Collisions

		for _, member := range roster.Order {
			row := table.RosterRow{
				Member:     member,
				Collection: collection.Name,
				Attributes: roster.Members[member],
			}

			slot := len(rows)
			if existing, taken := owners[member]; taken {
				summary.Collisions++
				p.tel.ReportWarning(report_pipeline_collision, member, rows[existing].Collection, collection.Name)

				switch p.opts.CollisionPolicy {
				case CollisionError:
					return nil, nil, fmt.Errorf(
						"%w: %s is listed by both %s and %s",
						ErrMemberCollision, member, rows[existing].Collection, collection.Name,
					)
				case CollisionDisambiguate:
					row.Member = disambiguate(member, collection.Name)
					if _, taken := owners[row.Member]; taken {
						return nil, nil, fmt.Errorf("%w: %s is listed twice", ErrMemberCollision, row.Member)
					}
				default:
					slot = existing
				}
			}

			failures := normalize.ApplyRecord(row.Member, row.Attributes, p.opts.Fields)
			for _, failure := range failures {
				p.tel.ReportWarning(report_pipeline_normalize, failure.Member, failure.Field, failure.Err)
			}

			if slot == len(rows) {
				owners[row.Member] = slot
				rows = append(rows, row)
				rowFailures = append(rowFailures, failures)
				continue
			}
			rows[slot] = row
			rowFailures[slot] = failures
		}
	}

	var failures []normalize.Failure
	for _, fs := range rowFailures {
		failures = append(failures, fs...)
	}
	summary.UnparseableFields = len(failures)

	return rows, failures, nil
}

func (p Pipeline) careers(ctx context.Context, rows []table.RosterRow, summary *Summary) (table.MetricTable, error) {
	ctx, span := tracer.Start(ctx, "careers", trace.WithAttributes(
		attribute.Int("members", len(rows)),
	))
	defer span.End()

	metrics := table.MetricTable{
		Columns: slices.Clone(espn.CareerSchema.Fields),
		Records: map[string][]float64{},
	}

	for _, row := range rows {
		id, ok := espn.MemberID(row.Attributes)
		if !ok {
			summary.MissingID++
			p.tel.ReportWarning(report_pipeline_missing_id, row.Member, row.Collection)
			continue
		}

		values, found, err := p.source.Career(ctx, id)
		switch {
		case errors.Is(err, espn.ErrSchemaMismatch):
			summary.SchemaMismatches++
			p.tel.ReportWarning(report_pipeline_career, row.Member, err)
			continue
		case errors.Is(err, extract.ErrMalformedRecord):
			summary.MalformedRecords++
			p.tel.ReportWarning(report_pipeline_career, row.Member, err)
			continue
		case err != nil:
			return table.MetricTable{}, fmt.Errorf("career of %s: %w", row.Member, err)
		}

		if !found {
			summary.NoHistory++
			p.tel.ReportDebug(report_pipeline_no_history, row.Member)
			continue
		}
		metrics.Records[row.Member] = values
	}

	return metrics, nil
}
