package planapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/wrench/internal/plan"
	"github.com/linnemanlabs/wrench/internal/submission"
)

type vehicleDTO struct {
	VIN          string `json:"vin,omitempty"`
	Year         int    `json:"year"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	CurrentMiles int    `json:"current_miles"`

	// Production is the build month, "YYYY-MM". Empty falls back to the
	// June-1 estimate from the model year; no year at all marks the
	// baseline unknown.
	Production string `json:"production,omitempty"`

	Engine string `json:"engine,omitempty"`
	Trans  string `json:"trans,omitempty"`
	Drive  string `json:"drive,omitempty"`
}

type intervalDTO struct {
	Years int `json:"years"`
	Miles int `json:"miles"`
}

type historyDTO struct {
	Kind               string `json:"kind"` // known | none | not_equipped
	LastMiles          int    `json:"last_miles,omitempty"`
	LastMonth          int    `json:"last_month,omitempty"` // 1..12
	LastYear           int    `json:"last_year,omitempty"`
	PerformedThisVisit bool   `json:"performed_this_visit,omitempty"`
}

type thresholdsDTO struct {
	Miles        int            `json:"miles"`
	Months       int            `json:"months"`
	MilesByItem  map[string]int `json:"miles_by_item,omitempty"`
	MonthsByItem map[string]int `json:"months_by_item,omitempty"`
}

type saveDTO struct {
	CreatedBy string `json:"created_by"`
	Notes     string `json:"notes,omitempty"`
}

type planRequest struct {
	Vehicle    vehicleDTO             `json:"vehicle"`
	Intervals  map[string]intervalDTO `json:"intervals,omitempty"`
	History    map[string]historyDTO  `json:"history,omitempty"`
	Thresholds *thresholdsDTO         `json:"thresholds,omitempty"`

	// Save requests persisting a pending template submission alongside the
	// evaluation. The evaluation is returned even when persistence fails.
	Save *saveDTO `json:"save,omitempty"`
}

type planResponse struct {
	Results  *plan.Results `json:"results"`
	BulkText string        `json:"bulk_text"`

	Submission      *submission.Submission `json:"submission,omitempty"`
	SubmissionError string                 `json:"submission_error,omitempty"`
}

func (a *API) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	pc, err := a.buildContext(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := plan.Run(*pc)
	if a.metrics != nil {
		a.metrics.ObserveRun(results)
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.Int("wrench.plan.due_now", len(results.DueNow)),
		attribute.Int("wrench.plan.due_soon", len(results.DueSoon)),
	)

	resp := planResponse{Results: results, BulkText: results.BulkText()}

	if req.Save != nil {
		sub, err := a.subs.Create(r.Context(), submission.CreateInput{
			CreatedBy: req.Save.CreatedBy,
			VIN:       pc.Vehicle.VIN,
			Year:      pc.Vehicle.Year,
			Make:      pc.Vehicle.Make,
			Model:     pc.Vehicle.Model,
			EngineRaw: pc.Vehicle.Engine,
			TransRaw:  pc.Vehicle.Trans,
			Intervals: pc.Intervals,
			BulkCopy:  resp.BulkText,
			Notes:     req.Save.Notes,
		})
		if err != nil {
			// The evaluation stands on its own; report the save failure
			// in-band instead of failing the request.
			a.logger.Error(r.Context(), err, "submission save failed", "vin", pc.Vehicle.VIN)
			resp.SubmissionError = err.Error()
		} else {
			resp.Submission = sub
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// buildContext validates and converts the wire request into an engine run
// context.
func (a *API) buildContext(req *planRequest) (*plan.Context, error) {
	v := plan.Vehicle{
		VIN:          req.Vehicle.VIN,
		Year:         req.Vehicle.Year,
		Make:         req.Vehicle.Make,
		Model:        req.Vehicle.Model,
		CurrentMiles: req.Vehicle.CurrentMiles,
		Engine:       req.Vehicle.Engine,
		Trans:        req.Vehicle.Trans,
		Drive:        req.Vehicle.Drive,
	}
	if req.Vehicle.CurrentMiles < 0 {
		return nil, fmt.Errorf("current_miles must not be negative")
	}

	switch {
	case req.Vehicle.Production != "":
		prod, err := time.Parse("2006-01", req.Vehicle.Production)
		if err != nil {
			return nil, fmt.Errorf("invalid production %q (want YYYY-MM)", req.Vehicle.Production)
		}
		v.Production = prod
	case req.Vehicle.Year > 0:
		v.Production = plan.EstimateProductionDate(req.Vehicle.Year)
	default:
		v.ProdUnknown = true
	}

	intervals := plan.DefaultIntervals()
	if req.Intervals != nil {
		intervals = make(plan.IntervalSet, len(req.Intervals))
		for name, iv := range req.Intervals {
			item, err := itemByName(name)
			if err != nil {
				return nil, err
			}
			if iv.Years < 0 || iv.Miles < 0 {
				return nil, fmt.Errorf("negative interval for %q", name)
			}
			intervals[item] = plan.Interval{Years: iv.Years, Miles: iv.Miles}
		}
	}

	history := make(map[plan.Item]plan.History, len(req.History))
	for name, h := range req.History {
		item, err := itemByName(name)
		if err != nil {
			return nil, err
		}
		hist, err := historyFromDTO(h)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		history[item] = hist
	}

	th := a.defaults.Thresholds
	if req.Thresholds != nil {
		th = plan.Thresholds{
			MilesDefault:  req.Thresholds.Miles,
			MonthsDefault: req.Thresholds.Months,
		}
		if len(req.Thresholds.MilesByItem) > 0 {
			th.MilesByItem = make(map[plan.Item]int, len(req.Thresholds.MilesByItem))
			for name, miles := range req.Thresholds.MilesByItem {
				item, err := itemByName(name)
				if err != nil {
					return nil, err
				}
				th.MilesByItem[item] = miles
			}
		}
		if len(req.Thresholds.MonthsByItem) > 0 {
			th.MonthsByItem = make(map[plan.Item]int, len(req.Thresholds.MonthsByItem))
			for name, months := range req.Thresholds.MonthsByItem {
				item, err := itemByName(name)
				if err != nil {
					return nil, err
				}
				th.MonthsByItem[item] = months
			}
		}
	}

	return &plan.Context{
		Vehicle:    v,
		Intervals:  intervals,
		History:    history,
		Thresholds: th,
		Bullets:    a.defaults.Bullets,
		Today:      time.Now().UTC(),
	}, nil
}

func historyFromDTO(h historyDTO) (plan.History, error) {
	var hist plan.History
	switch h.Kind {
	case "known":
		var lastDate time.Time
		switch {
		case h.LastYear > 0 && h.LastMonth >= 1 && h.LastMonth <= 12:
			lastDate = time.Date(h.LastYear, time.Month(h.LastMonth), 1, 0, 0, 0, 0, time.UTC)
		case h.LastYear > 0 || h.LastMonth > 0:
			return hist, fmt.Errorf("last_month and last_year must be given together (month 1..12)")
		}
		if h.LastMiles < 0 {
			return hist, fmt.Errorf("last_miles must not be negative")
		}
		hist = plan.KnownHistory(h.LastMiles, lastDate)
	case "none", "":
		hist = plan.NoHistory()
	case "not_equipped":
		hist = plan.NotEquipped()
	default:
		return hist, fmt.Errorf("unrecognized history kind %q", h.Kind)
	}
	hist.PerformedThisVisit = h.PerformedThisVisit
	return hist, nil
}

func itemByName(name string) (plan.Item, error) {
	for _, item := range plan.Items() {
		if string(item) == name {
			return item, nil
		}
	}
	return "", fmt.Errorf("unrecognized service item %q", name)
}
