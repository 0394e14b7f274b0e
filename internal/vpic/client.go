// Package vpic is a client for the NHTSA vPIC vehicle-identity decoder. The
// decoded fields seed vehicle defaults on intake; they are never evaluation
// inputs, and vPIC does not provide the production/build date.
package vpic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/linnemanlabs/wrench/internal/vin"
)

const httpTimeout = 10 * time.Second

// Client calls the vPIC DecodeVin endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a vPIC client against the given base endpoint
// (e.g. "https://vpic.nhtsa.dot.gov").
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// Decoded is the subset of vPIC variables the planner uses.
type Decoded struct {
	VIN             string `json:"vin"`
	Year            int    `json:"year,omitempty"`
	Make            string `json:"make,omitempty"`
	Model           string `json:"model,omitempty"`
	Trim            string `json:"trim,omitempty"`
	Series          string `json:"series,omitempty"`
	BodyClass       string `json:"body_class,omitempty"`
	DriveType       string `json:"drive_type,omitempty"`
	FuelType        string `json:"fuel_type,omitempty"`
	EngineCylinders string `json:"engine_cyl,omitempty"`
	DisplacementL   string `json:"engine_disp_l,omitempty"`
	TransStyle      string `json:"trans_style,omitempty"`
	TransSpeeds     string `json:"trans_speeds,omitempty"`
}

// Engine renders the powertrain hint seeded into the vehicle form,
// e.g. "6 cyl, 3.0 L". Empty when vPIC provided neither field.
func (d *Decoded) Engine() string {
	if d.EngineCylinders == "" && d.DisplacementL == "" {
		return ""
	}
	return fmt.Sprintf("%s cyl, %s L", orDash(d.EngineCylinders), orDash(d.DisplacementL))
}

// Trans renders the transmission hint, e.g. "Automatic 8".
func (d *Decoded) Trans() string {
	if d.TransStyle == "" && d.TransSpeeds == "" {
		return ""
	}
	if d.TransSpeeds == "" {
		return d.TransStyle
	}
	if d.TransStyle == "" {
		return d.TransSpeeds
	}
	return d.TransStyle + " " + d.TransSpeeds
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

type decodeResponse struct {
	Results []struct {
		Variable string  `json:"Variable"`
		Value    *string `json:"Value"`
	} `json:"Results"`
}

// Decode looks up v against vPIC. The model year prefers the vPIC value and
// falls back to the VIN's 10th-character code when vPIC has none.
func (c *Client) Decode(ctx context.Context, v string) (*Decoded, error) {
	v = vin.Normalize(v)
	if v == "" {
		return nil, fmt.Errorf("vpic: VIN is empty")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("vpic: invalid endpoint: %w", err)
	}
	u.Path = "/api/vehicles/DecodeVin/" + v
	u.RawQuery = url.Values{"format": {"json"}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("vpic: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vpic: decode request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("vpic: decode returned %d: %s", resp.StatusCode, string(body))
	}

	var dr decodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("vpic: parse response: %w", err)
	}

	pick := func(name string) string {
		for _, r := range dr.Results {
			if r.Variable == name && r.Value != nil {
				return *r.Value
			}
		}
		return ""
	}

	d := &Decoded{
		VIN:             v,
		Make:            pick("Make"),
		Model:           pick("Model"),
		Trim:            pick("Trim"),
		Series:          pick("Series"),
		BodyClass:       pick("BodyClass"),
		DriveType:       pick("DriveType"),
		FuelType:        pick("FuelTypePrimary"),
		EngineCylinders: pick("EngineCylinders"),
		DisplacementL:   pick("DisplacementL"),
		TransStyle:      pick("TransmissionStyle"),
		TransSpeeds:     pick("TransmissionSpeeds"),
	}

	if y, err := strconv.Atoi(pick("ModelYear")); err == nil && y > 0 {
		d.Year = y
	} else if y, ok := vin.ModelYear(v); ok {
		d.Year = y
	}

	return d, nil
}
