package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/wrench/internal/plan"
	"github.com/linnemanlabs/wrench/internal/vin"
)

// DefaultListLimit bounds list queries when the caller passes no limit.
const DefaultListLimit = 50

// ErrVINLength reports the not-saved outcome for a short or malformed VIN.
var ErrVINLength = errors.New("template not saved: full 17-character VIN required")

// ErrNotFound reports a submission ID with no row.
var ErrNotFound = errors.New("submission not found")

// Service is the business boundary for the template review workflow.
type Service struct {
	store   Store
	logger  log.Logger
	metrics *Metrics
}

// NewService creates a new submission service. metrics may be nil.
func NewService(store Store, logger log.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// CreateInput is a proposed interval template from a planning run.
type CreateInput struct {
	CreatedBy string
	VIN       string
	Year      int
	Make      string
	Model     string
	EngineRaw string
	TransRaw  string
	Intervals plan.IntervalSet
	BulkCopy  string
	Notes     string
}

// Create persists a pending submission. The VIN must be a full 17-character
// VIN; anything else fails with ErrVINLength and no row is written.
// Repeated submission from the same VIN creates independent rows.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Submission, error) {
	v := vin.Normalize(in.VIN)
	if !vin.Valid(v) {
		s.metrics.incCreate("rejected_vin")
		return nil, fmt.Errorf("%w (got %d characters)", ErrVINLength, len(v))
	}

	intervalsJSON, err := json.Marshal(in.Intervals)
	if err != nil {
		s.metrics.incCreate("error")
		return nil, fmt.Errorf("marshal intervals: %w", err)
	}

	now := time.Now().UTC()
	sub := &Submission{
		ID:                ulid.Make().String(),
		CreatedBy:         in.CreatedBy,
		VIN:               v,
		Year:              in.Year,
		Make:              in.Make,
		Model:             in.Model,
		EngineRaw:         in.EngineRaw,
		TransRaw:          in.TransRaw,
		IntervalsProposed: intervalsJSON,
		State:             StatePending,
		BulkCopy:          in.BulkCopy,
		VehicleNotes:      in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.Insert(ctx, sub); err != nil {
		s.metrics.incCreate("error")
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	s.metrics.incCreate("saved")
	s.logger.Info(ctx, "template submission saved",
		"submission_id", sub.ID,
		"vin", sub.VIN,
		"created_by", sub.CreatedBy,
	)
	return sub, nil
}

// Get retrieves a submission by ID.
func (s *Service) Get(ctx context.Context, id string) (*Submission, bool, error) {
	return s.store.Get(ctx, id)
}

// ListByState returns submissions in a state, newest first.
func (s *Service) ListByState(ctx context.Context, state State, limit int) ([]*Submission, error) {
	return s.store.ListByState(ctx, state, clampLimit(limit))
}

// ListByCreator returns a planner's submissions, newest first.
func (s *Service) ListByCreator(ctx context.Context, creator string, limit int) ([]*Submission, error) {
	return s.store.ListByCreator(ctx, creator, clampLimit(limit))
}

// ListReviews returns the append-only review log for a submission.
func (s *Service) ListReviews(ctx context.Context, id string) ([]*ReviewLogEntry, error) {
	return s.store.ListReviews(ctx, id)
}

// UpdateContent edits the bulk-copy text and vehicle notes. Allowed in any
// state, including post-review text corrections; the review log already
// holds the content the decision was made on.
func (s *Service) UpdateContent(ctx context.Context, id string, upd ContentUpdate) error {
	found, err := s.store.UpdateContent(ctx, id, upd)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// ReviewOutcome reports one attempted review decision.
type ReviewOutcome struct {
	EntryID string `json:"review_id"`

	// Applied is false when another reviewer finalized the submission
	// first. The log entry exists either way.
	Applied bool `json:"applied"`

	State State `json:"manager_state"`
}

// Review applies a manager decision. Ordering is load-bearing: the review
// log row is inserted unconditionally first, then the state transition is a
// compare-and-swap gated on the row still being pending. A lost race is not
// an error; the log records the attempt while the first decision's state
// stands.
func (s *Service) Review(ctx context.Context, id, reviewer string, action Action, notes string) (*ReviewOutcome, error) {
	target, ok := action.TargetState()
	if !ok {
		return nil, fmt.Errorf("unrecognized review action %q", action)
	}
	if reviewer == "" {
		return nil, errors.New("reviewer identity is required")
	}

	sub, found, err := s.store.Get(ctx, id)
	if err != nil {
		s.metrics.incReview(action, "error")
		return nil, fmt.Errorf("read submission: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}

	snapJSON, err := json.Marshal(snapshotOf(sub))
	if err != nil {
		s.metrics.incReview(action, "error")
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	now := time.Now().UTC()
	entry := &ReviewLogEntry{
		ID:           ulid.Make().String(),
		SubmissionID: sub.ID,
		Reviewer:     reviewer,
		Action:       action,
		Notes:        notes,
		Snapshot:     snapJSON,
		CreatedAt:    now,
	}
	if err := s.store.AppendReview(ctx, entry); err != nil {
		s.metrics.incReview(action, "error")
		return nil, fmt.Errorf("append review log: %w", err)
	}

	applied, err := s.store.FinalizeIfPending(ctx, sub.ID, action, reviewer, notes, now)
	if err != nil {
		s.metrics.incReview(action, "error")
		return nil, fmt.Errorf("finalize submission: %w", err)
	}

	outcome := &ReviewOutcome{EntryID: entry.ID, Applied: applied, State: target}
	if applied {
		s.metrics.incReview(action, "applied")
	} else {
		// Another reviewer won the race; report the state they set.
		s.metrics.incReview(action, "noop")
		if cur, ok, err := s.store.Get(ctx, sub.ID); err == nil && ok {
			outcome.State = cur.State
		}
		s.logger.Info(ctx, "review had no effect, submission already finalized",
			"submission_id", sub.ID,
			"reviewer", reviewer,
			"action", string(action),
		)
	}

	s.logger.Info(ctx, "review recorded",
		"submission_id", sub.ID,
		"review_id", entry.ID,
		"reviewer", reviewer,
		"action", string(action),
		"applied", applied,
	)
	return outcome, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
