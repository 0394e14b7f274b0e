package plan

// AutoMilesPerYear is the entry-time convenience rule: a years interval
// suggests a miles interval of years x 10,000. It is a data-entry aid, never
// applied inside evaluation.
const AutoMilesPerYear = 10_000

// Interval is the target cadence for one item. Zero means the dimension is
// not set; an interval with neither dimension is not in use.
type Interval struct {
	Years int `json:"years,omitempty"`
	Miles int `json:"miles,omitempty"`
}

// InUse reports whether at least one dimension is configured.
func (iv Interval) InUse() bool { return iv.Years > 0 || iv.Miles > 0 }

// IntervalSet maps items to their configured intervals. Items absent from the
// set have no interval and evaluate to na.
type IntervalSet map[Item]Interval

// Get returns the interval for item, or nil if the item is not in use.
func (s IntervalSet) Get(item Item) *Interval {
	iv, ok := s[item]
	if !ok || !iv.InUse() {
		return nil
	}
	return &iv
}

// DeriveMiles applies the auto-miles rule for interval entry.
// Returns 0 when years is not positive.
func DeriveMiles(years int) int {
	if years <= 0 {
		return 0
	}
	return years * AutoMilesPerYear
}

// DefaultIntervals returns the shop's stock interval template. Items not
// present start as not-in-use.
func DefaultIntervals() IntervalSet {
	return IntervalSet{
		ItemEngineOil:    {Years: 1, Miles: 5000},
		ItemBrakeFluid:   {Years: 2},
		ItemCoolant:      {Years: 4},
		ItemTransmission: {Years: 7, Miles: 75000},
		ItemFrontDiff:    {Years: 7, Miles: 75000},
		ItemRearDiff:     {Years: 7, Miles: 75000},
		ItemTransferCase: {Years: 7, Miles: 75000},
	}
}
