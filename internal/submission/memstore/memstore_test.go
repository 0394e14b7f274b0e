package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/linnemanlabs/wrench/internal/submission"
)

func pendingSub(id string, createdAt time.Time) *submission.Submission {
	return &submission.Submission{
		ID:        id,
		CreatedBy: "advisor-1",
		VIN:       "WBA3B1C50DF461234",
		Year:      2013,
		Make:      "BMW",
		Model:     "335i",
		State:     submission.StatePending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Insert(ctx, pendingSub("s-1", time.Now().UTC())); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, ok, err := s.Get(ctx, "s-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected submission to be found")
	}
	if got.VIN != "WBA3B1C50DF461234" {
		t.Errorf("VIN = %q, want %q", got.VIN, "WBA3B1C50DF461234")
	}
	if got.State != submission.StatePending {
		t.Errorf("State = %q, want %q", got.State, submission.StatePending)
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	s := New()
	_, ok, err := s.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing ID")
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	_ = s.Insert(ctx, pendingSub("s-copy", time.Now().UTC()))

	got, _, _ := s.Get(ctx, "s-copy")
	got.BulkCopy = "mutated by caller"

	again, _, _ := s.Get(ctx, "s-copy")
	if again.BulkCopy != "" {
		t.Errorf("BulkCopy = %q, want empty; caller mutation leaked into store", again.BulkCopy)
	}
}

func TestStore_ListByStateNewestFirst(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = s.Insert(ctx, pendingSub("s-old", base))
	_ = s.Insert(ctx, pendingSub("s-mid", base.Add(time.Hour)))
	_ = s.Insert(ctx, pendingSub("s-new", base.Add(2*time.Hour)))

	approved := pendingSub("s-appr", base.Add(3*time.Hour))
	approved.State = submission.StateApproved
	_ = s.Insert(ctx, approved)

	got, err := s.ListByState(ctx, submission.StatePending, 10)
	if err != nil {
		t.Fatalf("ListByState: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantOrder := []string{"s-new", "s-mid", "s-old"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestStore_ListByStateLimit(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		_ = s.Insert(ctx, pendingSub(fmt.Sprintf("s-%d", i), base.Add(time.Duration(i)*time.Minute)))
	}

	got, err := s.ListByState(ctx, submission.StatePending, 2)
	if err != nil {
		t.Fatalf("ListByState: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "s-4" {
		t.Errorf("got[0].ID = %q, want s-4", got[0].ID)
	}
}

func TestStore_ListByCreator(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mine := pendingSub("s-mine", base)
	_ = s.Insert(ctx, mine)
	other := pendingSub("s-other", base.Add(time.Minute))
	other.CreatedBy = "advisor-2"
	_ = s.Insert(ctx, other)

	got, err := s.ListByCreator(ctx, "advisor-1", 10)
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(got) != 1 || got[0].ID != "s-mine" {
		t.Fatalf("got = %v, want exactly s-mine", got)
	}
}

func TestStore_UpdateContent(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	_ = s.Insert(ctx, pendingSub("s-upd", time.Now().UTC()))

	bulk := "• Engine Oil — OK last 06/2025 @ 40,000 mi • DUE 1 yr / 5K"
	ok, err := s.UpdateContent(ctx, "s-upd", submission.ContentUpdate{BulkCopy: &bulk})
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}

	got, _, _ := s.Get(ctx, "s-upd")
	if got.BulkCopy != bulk {
		t.Errorf("BulkCopy = %q, want %q", got.BulkCopy, bulk)
	}
	if got.VehicleNotes != "" {
		t.Errorf("VehicleNotes = %q, want unchanged empty", got.VehicleNotes)
	}
}

func TestStore_UpdateContentMissing(t *testing.T) {
	t.Parallel()

	s := New()
	notes := "x"
	ok, err := s.UpdateContent(context.Background(), "nonexistent", submission.ContentUpdate{VehicleNotes: &notes})
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing ID")
	}
}

func TestStore_FinalizeIfPending(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	_ = s.Insert(ctx, pendingSub("s-fin", time.Now().UTC()))

	at := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	applied, err := s.FinalizeIfPending(ctx, "s-fin", submission.ActionApprove, "manager-1", "looks right", at)
	if err != nil {
		t.Fatalf("FinalizeIfPending: %v", err)
	}
	if !applied {
		t.Fatal("expected first finalization to apply")
	}

	got, _, _ := s.Get(ctx, "s-fin")
	if got.State != submission.StateApproved {
		t.Errorf("State = %q, want %q", got.State, submission.StateApproved)
	}
	if got.ReviewedBy != "manager-1" {
		t.Errorf("ReviewedBy = %q, want manager-1", got.ReviewedBy)
	}
	if !got.ReviewedAt.Equal(at) {
		t.Errorf("ReviewedAt = %v, want %v", got.ReviewedAt, at)
	}
}

func TestStore_FinalizeIfPendingOnlyFirstWins(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	_ = s.Insert(ctx, pendingSub("s-race", time.Now().UTC()))

	at := time.Now().UTC()
	first, err := s.FinalizeIfPending(ctx, "s-race", submission.ActionDeny, "manager-1", "", at)
	if err != nil {
		t.Fatalf("first FinalizeIfPending: %v", err)
	}
	second, err := s.FinalizeIfPending(ctx, "s-race", submission.ActionApprove, "manager-2", "", at)
	if err != nil {
		t.Fatalf("second FinalizeIfPending: %v", err)
	}
	if !first || second {
		t.Fatalf("first = %v, second = %v; want exactly one to apply", first, second)
	}

	got, _, _ := s.Get(ctx, "s-race")
	if got.State != submission.StateDenied {
		t.Errorf("State = %q, want %q (first reviewer wins)", got.State, submission.StateDenied)
	}
	if got.ReviewedBy != "manager-1" {
		t.Errorf("ReviewedBy = %q, want manager-1", got.ReviewedBy)
	}
}

func TestStore_AppendAndListReviews(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	for i, action := range []submission.Action{submission.ActionRequestChanges, submission.ActionApprove} {
		e := &submission.ReviewLogEntry{
			ID:           fmt.Sprintf("r-%d", i),
			SubmissionID: "s-log",
			Reviewer:     "manager-1",
			Action:       action,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AppendReview(ctx, e); err != nil {
			t.Fatalf("AppendReview: %v", err)
		}
	}
	_ = s.AppendReview(ctx, &submission.ReviewLogEntry{ID: "r-x", SubmissionID: "s-other", Reviewer: "m", Action: submission.ActionDeny, CreatedAt: base})

	got, err := s.ListReviews(ctx, "s-log")
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Action != submission.ActionRequestChanges || got[1].Action != submission.ActionApprove {
		t.Errorf("order = [%s, %s], want oldest first", got[0].Action, got[1].Action)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n * 2)

	for i := range n {
		id := fmt.Sprintf("id-%d", i)

		go func() {
			defer wg.Done()
			_ = s.Insert(ctx, pendingSub(id, time.Now().UTC()))
			_, _ = s.FinalizeIfPending(ctx, id, submission.ActionApprove, "m", "", time.Now().UTC())
		}()

		go func() {
			defer wg.Done()
			_, _, _ = s.Get(ctx, id)
			_, _ = s.ListByState(ctx, submission.StatePending, 10)
		}()
	}

	wg.Wait()
}
