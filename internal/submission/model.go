package submission

import (
	"encoding/json"
	"time"
)

// State tracks where a submission is in its review lifecycle.
type State string

const (
	// StatePending means awaiting a manager decision. The only state
	// reachable from creation.
	StatePending State = "pending"

	// StateApproved, StateDenied and StateChangesRequested are terminal:
	// no further transition is defined from any of them.
	StateApproved         State = "approved"
	StateDenied           State = "denied"
	StateChangesRequested State = "changes_requested"
)

// Action is a manager review decision.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionDeny           Action = "deny"
	ActionRequestChanges Action = "request_changes"
)

// TargetState returns the terminal state an action transitions to, and
// whether the action is recognized.
func (a Action) TargetState() (State, bool) {
	switch a {
	case ActionApprove:
		return StateApproved, true
	case ActionDeny:
		return StateDenied, true
	case ActionRequestChanges:
		return StateChangesRequested, true
	default:
		return "", false
	}
}

// Submission is a proposed interval template awaiting review. Content fields
// are planner-editable until (and, for text corrections, after) review; the
// state and reviewer fields belong to the review state machine. Submissions
// are never deleted.
type Submission struct {
	ID        string `json:"submission_id"`
	CreatedBy string `json:"created_by"`
	VIN       string `json:"vin"`
	Year      int    `json:"year"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	EngineRaw string `json:"engine_raw,omitempty"`
	TransRaw  string `json:"trans_raw,omitempty"`

	// IntervalsProposed is the serialized plan.IntervalSet.
	IntervalsProposed json.RawMessage `json:"intervals_proposed"`

	State        State     `json:"manager_state"`
	BulkCopy     string    `json:"bulk_copy,omitempty"`
	VehicleNotes string    `json:"vehicle_notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Reviewer metadata, set once a review decision lands.
	ReviewedBy   string    `json:"reviewed_by,omitempty"`
	ReviewAction Action    `json:"review_action,omitempty"`
	ReviewNotes  string    `json:"review_notes,omitempty"`
	ReviewedAt   time.Time `json:"reviewed_at,omitzero"`
}

// Snapshot freezes a submission's content fields at decision time. Stored on
// every review-log row so the audit trail is independent of later edits to
// the mutable submission row.
type Snapshot struct {
	SubmissionID      string          `json:"submission_id"`
	CreatedBy         string          `json:"created_by"`
	VIN               string          `json:"vin"`
	Year              int             `json:"year"`
	Make              string          `json:"make"`
	Model             string          `json:"model"`
	EngineRaw         string          `json:"engine_raw,omitempty"`
	TransRaw          string          `json:"trans_raw,omitempty"`
	IntervalsProposed json.RawMessage `json:"intervals_proposed"`
	BulkCopy          string          `json:"bulk_copy,omitempty"`
	VehicleNotes      string          `json:"vehicle_notes,omitempty"`
	State             State           `json:"manager_state"` // pre-review state
	CreatedAt         time.Time       `json:"created_at"`
}

// snapshotOf captures s's content fields.
func snapshotOf(s *Submission) Snapshot {
	return Snapshot{
		SubmissionID:      s.ID,
		CreatedBy:         s.CreatedBy,
		VIN:               s.VIN,
		Year:              s.Year,
		Make:              s.Make,
		Model:             s.Model,
		EngineRaw:         s.EngineRaw,
		TransRaw:          s.TransRaw,
		IntervalsProposed: s.IntervalsProposed,
		BulkCopy:          s.BulkCopy,
		VehicleNotes:      s.VehicleNotes,
		State:             s.State,
		CreatedAt:         s.CreatedAt,
	}
}

// ReviewLogEntry is one attempted review decision. Append-only: never
// mutated or deleted after insertion. An entry may record an attempt that
// did not change the submission's state (a lost double-finalization race);
// the submission row is the source of truth for current state.
type ReviewLogEntry struct {
	ID           string          `json:"review_id"`
	SubmissionID string          `json:"submission_id"`
	Reviewer     string          `json:"reviewer"`
	Action       Action          `json:"action"`
	Notes        string          `json:"notes,omitempty"`
	Snapshot     json.RawMessage `json:"snapshot"`
	CreatedAt    time.Time       `json:"created_at"`
}
