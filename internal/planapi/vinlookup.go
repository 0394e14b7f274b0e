package planapi

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/wrench/internal/vin"
	"github.com/linnemanlabs/wrench/internal/vpic"
)

type vinResponse struct {
	Decoded *vpic.Decoded `json:"decoded"`

	// Rendered powertrain hints, ready to seed the vehicle form.
	Engine string `json:"engine,omitempty"`
	Trans  string `json:"trans,omitempty"`

	// KnownMake is advisory: the shop's usual marques, never a gate.
	KnownMake bool `json:"known_make"`
}

func (a *API) handleDecodeVIN(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "vin")
	v := vin.Normalize(raw)
	if !vin.Valid(v) {
		writeError(w, http.StatusBadRequest, "full 17-character VIN required")
		return
	}
	if a.decoder == nil {
		writeError(w, http.StatusServiceUnavailable, "VIN decoding not configured")
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("wrench.vin", v))

	decoded, err := a.decoder.Decode(r.Context(), v)
	if err != nil {
		a.logger.Error(r.Context(), err, "vin decode failed", "vin", v)
		writeError(w, http.StatusBadGateway, "VIN decode failed")
		return
	}

	writeJSON(w, http.StatusOK, vinResponse{
		Decoded:   decoded,
		Engine:    decoded.Engine(),
		Trans:     decoded.Trans(),
		KnownMake: knownMake(decoded.Make),
	})
}

func knownMake(name string) bool {
	for _, m := range vin.KnownMakes {
		if m == name {
			return true
		}
	}
	return false
}
