// Package memstore provides an in-memory implementation of submission.Store.
// Suitable for dev/testing; the double-finalization guard holds under the
// store mutex instead of a conditional UPDATE.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/linnemanlabs/wrench/internal/submission"
)

// Store holds submissions and review-log entries in memory.
type Store struct {
	mu          sync.RWMutex
	submissions map[string]*submission.Submission // submission ID -> row
	reviews     []*submission.ReviewLogEntry      // insertion order
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		submissions: make(map[string]*submission.Submission),
	}
}

// Insert stores a copy of the submission.
func (s *Store) Insert(_ context.Context, sub *submission.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sub
	s.submissions[sub.ID] = &cp
	return nil
}

// Get retrieves a submission by ID. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*submission.Submission, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, false, nil
	}
	cp := *sub
	return &cp, true, nil
}

// ListByState returns submissions in the given state, newest first.
func (s *Store) ListByState(_ context.Context, state submission.State, limit int) ([]*submission.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(limit, func(sub *submission.Submission) bool {
		return sub.State == state
	}), nil
}

// ListByCreator returns submissions by creator, newest first.
func (s *Store) ListByCreator(_ context.Context, creator string, limit int) ([]*submission.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(limit, func(sub *submission.Submission) bool {
		return sub.CreatedBy == creator
	}), nil
}

func (s *Store) listLocked(limit int, match func(*submission.Submission) bool) []*submission.Submission {
	var out []*submission.Submission
	for _, sub := range s.submissions {
		if match(sub) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// UpdateContent edits the planner-editable text fields in any state.
func (s *Store) UpdateContent(_ context.Context, id string, upd submission.ContentUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return false, nil
	}
	if upd.BulkCopy != nil {
		sub.BulkCopy = *upd.BulkCopy
	}
	if upd.VehicleNotes != nil {
		sub.VehicleNotes = *upd.VehicleNotes
	}
	sub.UpdatedAt = time.Now().UTC()
	return true, nil
}

// AppendReview stores a copy of the review-log entry unconditionally.
func (s *Store) AppendReview(_ context.Context, e *submission.ReviewLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.reviews = append(s.reviews, &cp)
	return nil
}

// ListReviews returns a submission's review log, oldest first.
func (s *Store) ListReviews(_ context.Context, submissionID string) ([]*submission.ReviewLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*submission.ReviewLogEntry
	for _, e := range s.reviews {
		if e.SubmissionID == submissionID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// FinalizeIfPending applies the state transition only if the row is still
// pending.
func (s *Store) FinalizeIfPending(_ context.Context, id string, action submission.Action, reviewer, notes string, at time.Time) (bool, error) {
	target, ok := action.TargetState()
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sub, found := s.submissions[id]
	if !found || sub.State != submission.StatePending {
		return false, nil
	}
	sub.State = target
	sub.ReviewedBy = reviewer
	sub.ReviewAction = action
	sub.ReviewNotes = notes
	sub.ReviewedAt = at
	sub.UpdatedAt = at
	return true, nil
}
