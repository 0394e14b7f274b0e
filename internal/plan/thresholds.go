package plan

// Thresholds separate due_soon from ok. They never affect due_now.
// Per-item overrides fall back to the global default pair.
type Thresholds struct {
	MilesDefault  int
	MonthsDefault int
	MilesByItem   map[Item]int
	MonthsByItem  map[Item]int
}

// DefaultThresholds returns the stock warning windows: 5,000 mi / 6 mo, with
// engine oil warned at 1,500 mi since its interval is much shorter than the
// global default.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MilesDefault:  5000,
		MonthsDefault: 6,
		MilesByItem:   map[Item]int{ItemEngineOil: 1500},
	}
}

// MilesFor returns the due-soon miles window for item.
func (t Thresholds) MilesFor(item Item) int {
	if v, ok := t.MilesByItem[item]; ok {
		return v
	}
	return t.MilesDefault
}

// MonthsFor returns the due-soon months window for item.
func (t Thresholds) MonthsFor(item Item) int {
	if v, ok := t.MonthsByItem[item]; ok {
		return v
	}
	return t.MonthsDefault
}

// Bullets are the per-status glyphs used in bulk output only. na items never
// appear in bulk output, so no glyph exists for them.
type Bullets struct {
	DueNow  string
	DueSoon string
	OK      string
}

// DefaultBullets returns the stock bulk-copy glyphs.
func DefaultBullets() Bullets {
	return Bullets{DueNow: "•", DueSoon: "?", OK: "–"}
}

// For returns the glyph for status, defaulting to the due-now bullet for any
// unrecognized value.
func (b Bullets) For(s Status) string {
	switch s {
	case StatusDueSoon:
		return b.DueSoon
	case StatusOK:
		return b.OK
	default:
		return b.DueNow
	}
}
