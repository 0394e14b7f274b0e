package planapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/wrench/internal/authmw"
	"github.com/linnemanlabs/wrench/internal/submission"
)

func (a *API) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	state := submission.State(r.URL.Query().Get("state"))
	if state == "" {
		state = submission.StatePending
	}
	switch state {
	case submission.StatePending, submission.StateApproved, submission.StateDenied, submission.StateChangesRequested:
	default:
		writeError(w, http.StatusBadRequest, "unrecognized state")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	var (
		subs []*submission.Submission
		err  error
	)
	if creator := r.URL.Query().Get("created_by"); creator != "" {
		subs, err = a.subs.ListByCreator(r.Context(), creator, limit)
	} else {
		subs, err = a.subs.ListByState(r.Context(), state, limit)
	}
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list submissions", "state", string(state))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if subs == nil {
		subs = []*submission.Submission{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

func (a *API) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("wrench.submission.id", id))

	sub, ok, err := a.subs.Get(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get submission", "id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	span.SetAttributes(attribute.String("wrench.submission.state", string(sub.State)))
	writeJSON(w, http.StatusOK, sub)
}

func (a *API) handleListReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reviews, err := a.subs.ListReviews(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list reviews", "id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if reviews == nil {
		reviews = []*submission.ReviewLogEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

type updateContentRequest struct {
	BulkCopy     *string `json:"bulk_copy"`
	VehicleNotes *string `json:"vehicle_notes"`
}

func (a *API) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.BulkCopy == nil && req.VehicleNotes == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	err := a.subs.UpdateContent(r.Context(), id, submission.ContentUpdate{
		BulkCopy:     req.BulkCopy,
		VehicleNotes: req.VehicleNotes,
	})
	if errors.Is(err, submission.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to update submission content", "id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	sub, ok, err := a.subs.Get(r.Context(), id)
	if err != nil || !ok {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

type reviewRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes,omitempty"`
}

func (a *API) handleReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reviewer := authmw.Reviewer(r)

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	action := submission.Action(req.Action)
	if _, ok := action.TargetState(); !ok {
		writeError(w, http.StatusBadRequest, "unrecognized action")
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("wrench.submission.id", id),
		attribute.String("wrench.review.action", req.Action),
	)

	outcome, err := a.subs.Review(r.Context(), id, reviewer, action, req.Notes)
	if errors.Is(err, submission.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		a.logger.Error(r.Context(), err, "review failed", "id", id, "reviewer", reviewer)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}
