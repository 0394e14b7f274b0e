package plan

import (
	"strings"
	"testing"
	"time"
)

func testContext() Context {
	return Context{
		Vehicle:    testVehicle(44800),
		Intervals:  DefaultIntervals(),
		History:    map[Item]History{ItemEngineOil: KnownHistory(40000, date(2023, time.June, 1))},
		Thresholds: DefaultThresholds(),
		Bullets:    DefaultBullets(),
		Today:      date(2024, time.May, 1),
	}
}

func TestRun_BucketsEveryItem(t *testing.T) {
	t.Parallel()

	r := Run(testContext())

	total := len(r.DueNow) + len(r.DueSoon) + len(r.OK) + len(r.NA)
	if total != len(Items()) {
		t.Fatalf("bucketed %d items, want %d", total, len(Items()))
	}

	// Items without a default interval land in na.
	var naItems []string
	for _, ev := range r.NA {
		naItems = append(naItems, string(ev.Item))
	}
	for _, item := range []Item{ItemCabinFilter, ItemEngineAirFilter, ItemSparkPlugs, ItemFuelFilter, ItemOxygenSensor} {
		found := false
		for _, n := range naItems {
			if n == string(item) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s missing from na bucket (got %v)", item, naItems)
		}
	}
}

func TestRun_BulkExcludesNA(t *testing.T) {
	t.Parallel()

	r := Run(testContext())

	want := len(r.DueNow) + len(r.DueSoon) + len(r.OK)
	if len(r.BulkLines) != want {
		t.Errorf("BulkLines has %d entries, want %d (na excluded)", len(r.BulkLines), want)
	}
	for _, line := range r.BulkLines {
		if line == "" {
			t.Error("empty bulk line leaked into output")
		}
	}
}

func TestRun_MissingHistoryDefaultsToNoHistory(t *testing.T) {
	t.Parallel()

	pc := testContext()
	pc.History = nil // every item falls back to production-date baseline

	r := Run(pc)

	// Coolant: 4 years from 06/2013 production is long overdue by 2024.
	found := false
	for _, ev := range r.DueNow {
		if ev.Item == ItemCoolant {
			found = true
			if !strings.Contains(ev.Concise, "no history (baseline 06/2013)") {
				t.Errorf("Coolant concise = %q, want production baseline", ev.Concise)
			}
		}
	}
	if !found {
		t.Error("Coolant not in due-now bucket with production-date baseline")
	}
}

func TestResults_BulkText(t *testing.T) {
	t.Parallel()

	r := &Results{BulkLines: []string{"line one", "line two"}}
	if got := r.BulkText(); got != "line one\nline two" {
		t.Errorf("BulkText = %q", got)
	}

	empty := &Results{}
	if got := empty.BulkText(); got != "" {
		t.Errorf("BulkText on empty results = %q, want empty", got)
	}
}
