// Package pgstore provides a PostgreSQL implementation of submission.Store.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/wrench/internal/submission"
)

var tracer = otel.Tracer("github.com/linnemanlabs/wrench/internal/submission/pgstore")

//go:embed schema.sql
var schema string

// Store persists template submissions and their review log in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store. The
// pool stays owned by the caller.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const submissionColumns = `submission_id, created_by, vin, model_year, make, model,
	engine_raw, trans_raw, intervals_proposed, manager_state, bulk_copy, vehicle_notes,
	created_at, updated_at, reviewed_by, review_action, review_notes, reviewed_at`

// Insert stores a new submission row. The VIN length check lives in the
// schema too, so a bad row is refused even when a caller skips the service
// layer.
func (s *Store) Insert(ctx context.Context, sub *submission.Submission) error {
	ctx, span := tracer.Start(ctx, "pgstore.Insert", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	intervals := sub.IntervalsProposed
	if len(intervals) == 0 {
		intervals = []byte(`{}`)
	}

	query := `INSERT INTO template_submissions (
		submission_id, created_by, vin, model_year, make, model,
		engine_raw, trans_raw, intervals_proposed, manager_state, bulk_copy, vehicle_notes,
		created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err := s.pool.Exec(ctx, query,
		sub.ID, sub.CreatedBy, sub.VIN, sub.Year, sub.Make, sub.Model,
		sub.EngineRaw, sub.TransRaw, intervals, string(sub.State), sub.BulkCopy, sub.VehicleNotes,
		sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// Get retrieves a submission by ID.
func (s *Store) Get(ctx context.Context, id string) (*submission.Submission, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + submissionColumns + ` FROM template_submissions WHERE submission_id = $1`
	sub, err := scanSubmissionRow(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if sub == nil {
		return nil, false, nil
	}
	return sub, true, nil
}

// ListByState returns submissions in the given state, newest first.
//
//nolint:dupl // similar structure to ListByCreator is intentional
func (s *Store) ListByState(ctx context.Context, state submission.State, limit int) ([]*submission.Submission, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListByState", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + submissionColumns + ` FROM template_submissions
		WHERE manager_state = $1 ORDER BY created_at DESC, submission_id DESC LIMIT $2`
	rows, err := s.pool.Query(ctx, query, string(state), limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query by state: %w", err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// ListByCreator returns submissions created by the given advisor, newest first.
//
//nolint:dupl // similar structure to ListByState is intentional
func (s *Store) ListByCreator(ctx context.Context, creator string, limit int) ([]*submission.Submission, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListByCreator", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + submissionColumns + ` FROM template_submissions
		WHERE created_by = $1 ORDER BY created_at DESC, submission_id DESC LIMIT $2`
	rows, err := s.pool.Query(ctx, query, creator, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query by creator: %w", err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// UpdateContent edits bulk copy and vehicle notes. Only fields with non-nil
// pointers change.
func (s *Store) UpdateContent(ctx context.Context, id string, upd submission.ContentUpdate) (bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.UpdateContent", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	query := `UPDATE template_submissions SET
		bulk_copy     = COALESCE($2, bulk_copy),
		vehicle_notes = COALESCE($3, vehicle_notes),
		updated_at    = now()
	WHERE submission_id = $1`

	tag, err := s.pool.Exec(ctx, query, id, upd.BulkCopy, upd.VehicleNotes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("update content: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AppendReview inserts a review-log row. No state is checked here: the log
// records the attempt regardless of whether the transition later applies.
func (s *Store) AppendReview(ctx context.Context, e *submission.ReviewLogEntry) error {
	ctx, span := tracer.Start(ctx, "pgstore.AppendReview", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	snapshot := e.Snapshot
	if len(snapshot) == 0 {
		snapshot = []byte(`{}`)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO template_reviews (review_id, submission_id, reviewer, action, notes, snapshot, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.SubmissionID, e.Reviewer, string(e.Action), e.Notes, snapshot, e.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// ListReviews returns a submission's review log, oldest first.
func (s *Store) ListReviews(ctx context.Context, submissionID string) ([]*submission.ReviewLogEntry, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListReviews", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT review_id, submission_id, reviewer, action, notes, snapshot, created_at
		 FROM template_reviews WHERE submission_id = $1 ORDER BY created_at, review_id`,
		submissionID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var out []*submission.ReviewLogEntry
	for rows.Next() {
		var (
			e      submission.ReviewLogEntry
			action string
		)
		if err := rows.Scan(&e.ID, &e.SubmissionID, &e.Reviewer, &action, &e.Notes, &e.Snapshot, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		e.Action = submission.Action(action)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return out, nil
}

// FinalizeIfPending applies the transition with a conditional UPDATE; the
// WHERE clause on manager_state makes the first reviewer win and every
// later attempt a no-op.
func (s *Store) FinalizeIfPending(ctx context.Context, id string, action submission.Action, reviewer, notes string, at time.Time) (bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.FinalizeIfPending", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	target, ok := action.TargetState()
	if !ok {
		return false, nil
	}

	query := `UPDATE template_submissions SET
		manager_state = $2,
		reviewed_by   = $3,
		review_action = $4,
		review_notes  = $5,
		reviewed_at   = $6,
		updated_at    = $6
	WHERE submission_id = $1 AND manager_state = 'pending'`

	tag, err := s.pool.Exec(ctx, query, id, string(target), reviewer, string(action), notes, at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("finalize: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func collectSubmissions(rows pgx.Rows) ([]*submission.Submission, error) {
	var out []*submission.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

// scanSubmissionRow scans a single row. Returns (nil, nil) when no row is
// found.
func scanSubmissionRow(row pgx.Row) (*submission.Submission, error) {
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func scanSubmission(row pgx.Row) (*submission.Submission, error) {
	var (
		sub          submission.Submission
		state        string
		reviewedBy   *string
		reviewAction *string
		reviewNotes  *string
		reviewedAt   *time.Time
	)

	err := row.Scan(
		&sub.ID, &sub.CreatedBy, &sub.VIN, &sub.Year, &sub.Make, &sub.Model,
		&sub.EngineRaw, &sub.TransRaw, &sub.IntervalsProposed, &state, &sub.BulkCopy, &sub.VehicleNotes,
		&sub.CreatedAt, &sub.UpdatedAt, &reviewedBy, &reviewAction, &reviewNotes, &reviewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	sub.State = submission.State(state)
	if reviewedBy != nil {
		sub.ReviewedBy = *reviewedBy
	}
	if reviewAction != nil {
		sub.ReviewAction = submission.Action(*reviewAction)
	}
	if reviewNotes != nil {
		sub.ReviewNotes = *reviewNotes
	}
	if reviewedAt != nil {
		sub.ReviewedAt = *reviewedAt
	}
	return &sub, nil
}
