package plan

import "time"

// Status classifies a service item for the current planning run.
type Status string

const (
	// StatusDueNow means at least one evaluated dimension reached or passed its due point.
	StatusDueNow Status = "due_now"

	// StatusDueSoon means not due, but at least one dimension is inside its warning window.
	StatusDueSoon Status = "due_soon"

	// StatusOK means every evaluated dimension is outside its warning window.
	StatusOK Status = "ok"

	// StatusNA means the item has no interval configured or the vehicle is not equipped with it.
	StatusNA Status = "na"
)

// Item is a serviceable component tracked by the planner.
type Item string

const (
	ItemEngineOil       Item = "Engine Oil"
	ItemBrakeFluid      Item = "Brake Fluid"
	ItemCabinFilter     Item = "Cabin Filter"
	ItemEngineAirFilter Item = "Engine Air Filter"
	ItemCoolant         Item = "Coolant"
	ItemSparkPlugs      Item = "Spark Plugs"
	ItemTransmission    Item = "Transmission / Transaxle"
	ItemFrontDiff       Item = "Front Differential"
	ItemRearDiff        Item = "Rear Differential"
	ItemTransferCase    Item = "Transfer Case"
	ItemFuelFilter      Item = "Fuel Filter"
	ItemOxygenSensor    Item = "Oxygen Sensor"
)

// Items returns every service item in planning order.
func Items() []Item {
	return []Item{
		ItemEngineOil,
		ItemBrakeFluid,
		ItemCabinFilter,
		ItemEngineAirFilter,
		ItemCoolant,
		ItemSparkPlugs,
		ItemTransmission,
		ItemFrontDiff,
		ItemRearDiff,
		ItemTransferCase,
		ItemFuelFilter,
		ItemOxygenSensor,
	}
}

// Vehicle holds the identity and baseline facts for one planning run.
// It is owned by the run and never mutated during evaluation.
type Vehicle struct {
	VIN          string    `json:"vin,omitempty"`
	Year         int       `json:"year"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	CurrentMiles int       `json:"current_miles"`
	Production   time.Time `json:"production_date,omitzero"` // baseline when no service history exists
	ProdUnknown  bool      `json:"production_unknown,omitempty"`

	// Powertrain description, seeded from the VIN decoder but writer-editable.
	// Never an evaluation input.
	Engine string `json:"engine,omitempty"`
	Trans  string `json:"trans,omitempty"`
	Drive  string `json:"drive,omitempty"`
}

// HistoryKind discriminates the three mutually exclusive history states.
type HistoryKind string

const (
	// HistoryKnown means a last-service point was recorded (either field may be missing).
	HistoryKnown HistoryKind = "known"

	// HistoryNone means no service history; baseline falls back to the
	// vehicle production date and zero miles.
	HistoryNone HistoryKind = "none"

	// HistoryNotEquipped means the vehicle does not have this component.
	HistoryNotEquipped HistoryKind = "not_equipped"
)

// History is the last-known service point for one item.
type History struct {
	Kind HistoryKind

	// LastMiles is the odometer at last service. Zero means not tracked.
	LastMiles int

	// LastDate is the last service month, normalized to the 1st.
	// The zero value means not tracked.
	LastDate time.Time

	// PerformedThisVisit overrides the rendered last-done text with the
	// serviced-today marker. It does not change stored baselines or status.
	PerformedThisVisit bool
}

// KnownHistory builds a Known record. Month dates are normalized to the 1st.
func KnownHistory(lastMiles int, lastDate time.Time) History {
	if !lastDate.IsZero() {
		lastDate = time.Date(lastDate.Year(), lastDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return History{Kind: HistoryKnown, LastMiles: lastMiles, LastDate: lastDate}
}

// NoHistory builds a record with no known service point.
func NoHistory() History { return History{Kind: HistoryNone} }

// NotEquipped builds a record for a component the vehicle does not have.
func NotEquipped() History { return History{Kind: HistoryNotEquipped} }

// Evaluation is the per-item outcome of one planning run. Ephemeral:
// recomputed every run, never persisted item-by-item.
type Evaluation struct {
	Item    Item   `json:"item"`
	Status  Status `json:"status"`
	Concise string `json:"concise"`
	Verbose string `json:"verbose"`

	// Bulk is the tight customer/RO line. Empty for na items, which are
	// excluded from bulk output entirely.
	Bulk string `json:"bulk,omitempty"`
}
