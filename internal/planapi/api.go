// Package planapi exposes the planning engine and the template review
// workflow over HTTP.
package planapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/wrench/internal/authmw"
	"github.com/linnemanlabs/wrench/internal/plan"
	"github.com/linnemanlabs/wrench/internal/submission"
	"github.com/linnemanlabs/wrench/internal/vpic"
)

// VINDecoder defines the VIN lookup operation the API needs.
type VINDecoder interface {
	Decode(ctx context.Context, vin string) (*vpic.Decoded, error)
}

// Defaults are the server-side evaluation settings used when a request
// carries no override.
type Defaults struct {
	Thresholds plan.Thresholds
	Bullets    plan.Bullets
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger   log.Logger
	decoder  VINDecoder
	subs     *submission.Service
	metrics  *plan.Metrics
	defaults Defaults
}

// New creates a new API handler. decoder and metrics may be nil; the VIN
// route then reports unavailability and runs go unobserved.
func New(logger log.Logger, svc *submission.Service, decoder VINDecoder, metrics *plan.Metrics, defaults Defaults) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("submission service is required"))
	}
	if defaults.Thresholds.MilesDefault == 0 && defaults.Thresholds.MonthsDefault == 0 {
		defaults.Thresholds = plan.DefaultThresholds()
	}
	if defaults.Bullets == (plan.Bullets{}) {
		defaults.Bullets = plan.DefaultBullets()
	}
	return &API{
		logger:   logger,
		decoder:  decoder,
		subs:     svc,
		metrics:  metrics,
		defaults: defaults,
	}
}

// RegisterRoutes attaches API endpoints to the router. reviewAuth guards the
// manager decision endpoint; pass nil to leave it open (tests).
func (a *API) RegisterRoutes(r chi.Router, reviewAuth func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/plans", a.handleCreatePlan)
		r.Get("/vin/{vin}", a.handleDecodeVIN)
		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", a.handleListSubmissions)
			r.Get("/{id}", a.handleGetSubmission)
			r.Get("/{id}/reviews", a.handleListReviews)
			r.Patch("/{id}", a.handleUpdateContent)

			review := r.With(authmw.RequireReviewer)
			if reviewAuth != nil {
				review = r.With(reviewAuth, authmw.RequireReviewer)
			}
			review.Post("/{id}/review", a.handleReview)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
