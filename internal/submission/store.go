package submission

import (
	"context"
	"time"
)

// ContentUpdate carries the planner-editable text fields. Nil means leave
// the field unchanged.
type ContentUpdate struct {
	BulkCopy     *string
	VehicleNotes *string
}

// Store is the persistence interface for submissions and their review log.
type Store interface {
	// Insert persists a new submission row.
	Insert(ctx context.Context, s *Submission) error

	// Get retrieves a submission by ID.
	Get(ctx context.Context, id string) (*Submission, bool, error)

	// ListByState returns submissions in the given state, newest first,
	// at most limit rows.
	ListByState(ctx context.Context, state State, limit int) ([]*Submission, error)

	// ListByCreator returns submissions by creator, newest first, at most
	// limit rows.
	ListByCreator(ctx context.Context, creator string, limit int) ([]*Submission, error)

	// UpdateContent applies upd to the submission's content fields in any
	// state. Returns false when the submission does not exist.
	UpdateContent(ctx context.Context, id string, upd ContentUpdate) (bool, error)

	// AppendReview inserts a review-log row. Unconditional: succeeds
	// regardless of the submission's current state.
	AppendReview(ctx context.Context, e *ReviewLogEntry) error

	// ListReviews returns the review log for a submission, oldest first.
	ListReviews(ctx context.Context, submissionID string) ([]*ReviewLogEntry, error)

	// FinalizeIfPending transitions the submission to the action's terminal
	// state and records reviewer metadata, only if the row is still pending.
	// Returns false (and no error) when another reviewer already finalized
	// it or the row does not exist.
	FinalizeIfPending(ctx context.Context, id string, action Action, reviewer, notes string, at time.Time) (bool, error)
}
