package plan

import (
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testVehicle(currentMiles int) Vehicle {
	return Vehicle{
		VIN:          "WBA3B1C50DF461234",
		Year:         2013,
		Make:         "BMW",
		Model:        "335i",
		CurrentMiles: currentMiles,
		Production:   date(2013, time.June, 1),
	}
}

func evalOil(t *testing.T, currentMiles int, today time.Time) Evaluation {
	t.Helper()
	iv := &Interval{Years: 1, Miles: 5000}
	hist := KnownHistory(40000, date(2023, time.June, 1))
	return Evaluate(ItemEngineOil, testVehicle(currentMiles), iv, hist, DefaultThresholds(), DefaultBullets(), today)
}

func TestEvaluate_OilDueSoonByMiles(t *testing.T) {
	t.Parallel()

	// 200 mi remaining, within the 1,500 mi oil override.
	ev := evalOil(t, 44800, date(2024, time.May, 1))

	if ev.Status != StatusDueSoon {
		t.Fatalf("Status = %q, want %q", ev.Status, StatusDueSoon)
	}
	if !strings.Contains(ev.Concise, "next ~45,000 mi") {
		t.Errorf("Concise = %q, want next-due at 45,000 mi", ev.Concise)
	}
	if !strings.Contains(ev.Verbose, "miles due @ 45,000 (in 200)") {
		t.Errorf("Verbose = %q, want remaining 200", ev.Verbose)
	}
}

func TestEvaluate_OilDueNowByMiles(t *testing.T) {
	t.Parallel()

	ev := evalOil(t, 45200, date(2024, time.May, 1))

	if ev.Status != StatusDueNow {
		t.Fatalf("Status = %q, want %q", ev.Status, StatusDueNow)
	}
	if !strings.Contains(ev.Verbose, "miles due @ 45,000 (over 200)") {
		t.Errorf("Verbose = %q, want overdue by 200", ev.Verbose)
	}
}

func TestEvaluate_MileageBoundaries(t *testing.T) {
	t.Parallel()

	today := date(2023, time.July, 1) // time dimension not yet soon

	tests := []struct {
		name         string
		currentMiles int
		want         Status
	}{
		{"exactly at due-at is due now", 45000, StatusDueNow},
		{"remaining equals threshold is due soon", 43500, StatusDueSoon},
		{"remaining one over threshold is ok", 43499, StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev := evalOil(t, tt.currentMiles, today)
			if ev.Status != tt.want {
				t.Errorf("Status = %q, want %q", ev.Status, tt.want)
			}
		})
	}
}

func TestEvaluate_CoolantDueNowByTime(t *testing.T) {
	t.Parallel()

	v := testVehicle(50000)
	v.Production = date(2020, time.June, 1)
	iv := &Interval{Years: 4}

	ev := Evaluate(ItemCoolant, v, iv, NoHistory(), DefaultThresholds(), DefaultBullets(), date(2024, time.July, 1))

	if ev.Status != StatusDueNow {
		t.Fatalf("Status = %q, want %q", ev.Status, StatusDueNow)
	}
	if !strings.Contains(ev.Concise, "due was 06/2024") {
		t.Errorf("Concise = %q, want overdue time phrase", ev.Concise)
	}
	if !strings.Contains(ev.Concise, "no history (baseline 06/2020)") {
		t.Errorf("Concise = %q, want production-date baseline text", ev.Concise)
	}
}

func TestEvaluate_TimeSameMonthIsDue(t *testing.T) {
	t.Parallel()

	// Due date lands on the 1st; any today within that month is at or past it.
	v := testVehicle(10000)
	v.Production = date(2020, time.June, 1)
	iv := &Interval{Years: 4}

	ev := Evaluate(ItemCoolant, v, iv, NoHistory(), DefaultThresholds(), DefaultBullets(), date(2024, time.June, 15))
	if ev.Status != StatusDueNow {
		t.Errorf("Status = %q, want %q", ev.Status, StatusDueNow)
	}
}

func TestEvaluate_NotEquipped(t *testing.T) {
	t.Parallel()

	iv := &Interval{Years: 7, Miles: 75000}
	hist := NotEquipped()
	hist.PerformedThisVisit = true // must not override not-equipped text

	ev := Evaluate(ItemTransferCase, testVehicle(90000), iv, hist, DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))

	if ev.Status != StatusNA {
		t.Fatalf("Status = %q, want %q", ev.Status, StatusNA)
	}
	if ev.Bulk != "" {
		t.Errorf("Bulk = %q, want empty", ev.Bulk)
	}
	want := "Transfer Case — not equipped / not serviceable"
	if ev.Concise != want || ev.Verbose != want {
		t.Errorf("Concise/Verbose = %q / %q, want %q", ev.Concise, ev.Verbose, want)
	}
}

func TestEvaluate_NoInterval(t *testing.T) {
	t.Parallel()

	ev := Evaluate(ItemFuelFilter, testVehicle(90000), nil, KnownHistory(60000, date(2021, time.March, 1)), DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))

	if ev.Status != StatusNA {
		t.Fatalf("Status = %q, want %q", ev.Status, StatusNA)
	}
	if ev.Bulk != "" {
		t.Errorf("Bulk = %q, want empty", ev.Bulk)
	}
	if !strings.Contains(ev.Concise, "interval not set") {
		t.Errorf("Concise = %q, want interval-not-set text", ev.Concise)
	}
	if !strings.Contains(ev.Concise, "last 03/2021 @ 60,000 mi") {
		t.Errorf("Concise = %q, want last-done text", ev.Concise)
	}
}

func TestEvaluate_ServicedTodayMarker(t *testing.T) {
	t.Parallel()

	hist := KnownHistory(40000, date(2023, time.June, 1))
	hist.PerformedThisVisit = true

	iv := &Interval{Years: 1, Miles: 5000}
	ev := Evaluate(ItemEngineOil, testVehicle(44800), iv, hist, DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))

	if !strings.Contains(ev.Concise, ServicedTodayMarker) {
		t.Errorf("Concise = %q, want serviced-today marker", ev.Concise)
	}
	if !strings.Contains(ev.Bulk, ServicedTodayMarker) {
		t.Errorf("Bulk = %q, want serviced-today marker", ev.Bulk)
	}
	// The flag is presentation-only: status still derives from stored history.
	if ev.Status != StatusDueSoon {
		t.Errorf("Status = %q, want %q", ev.Status, StatusDueSoon)
	}
}

func TestEvaluate_ServicedTodayOnMissingInterval(t *testing.T) {
	t.Parallel()

	hist := NoHistory()
	hist.PerformedThisVisit = true

	ev := Evaluate(ItemCabinFilter, testVehicle(44800), nil, hist, DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))

	if ev.Status != StatusNA {
		t.Fatalf("Status = %q, want %q", ev.Status, StatusNA)
	}
	if !strings.Contains(ev.Concise, ServicedTodayMarker) {
		t.Errorf("Concise = %q, want serviced-today marker to win over baseline text", ev.Concise)
	}
}

func TestEvaluate_BothDimensionsShown(t *testing.T) {
	t.Parallel()

	// Miles overdue, time comfortably in the future: status reports the more
	// urgent dimension but both phrases must render.
	v := testVehicle(46000)
	iv := &Interval{Years: 1, Miles: 5000}
	hist := KnownHistory(40000, date(2024, time.March, 1))

	ev := Evaluate(ItemEngineOil, v, iv, hist, DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))

	if ev.Status != StatusDueNow {
		t.Fatalf("Status = %q, want %q", ev.Status, StatusDueNow)
	}
	if !strings.Contains(ev.Concise, "due was 45,000 mi") {
		t.Errorf("Concise = %q, want overdue miles phrase", ev.Concise)
	}
	if !strings.Contains(ev.Concise, "next ~03/2025") {
		t.Errorf("Concise = %q, want forward-looking time phrase", ev.Concise)
	}
}

func TestEvaluate_NextUnknown(t *testing.T) {
	t.Parallel()

	// Years-only interval with no usable date baseline: neither dimension
	// evaluates.
	v := testVehicle(50000)
	v.ProdUnknown = true
	v.Production = time.Time{}
	iv := &Interval{Years: 2}

	ev := Evaluate(ItemBrakeFluid, v, iv, NoHistory(), DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))

	if ev.Status != StatusOK {
		t.Fatalf("Status = %q, want %q", ev.Status, StatusOK)
	}
	if !strings.Contains(ev.Concise, "next unknown") {
		t.Errorf("Concise = %q, want next-unknown phrase", ev.Concise)
	}
	if !strings.Contains(ev.Concise, "no history (baseline unknown)") {
		t.Errorf("Concise = %q, want unknown-baseline text", ev.Concise)
	}
}

func TestEvaluate_KnownHistoryZeroMilesSkipsMileageCheck(t *testing.T) {
	t.Parallel()

	// Zero last-miles means "not tracked": a miles-only interval has nothing
	// to measure against.
	iv := &Interval{Miles: 5000}
	hist := KnownHistory(0, date(2023, time.June, 1))

	ev := Evaluate(ItemEngineAirFilter, testVehicle(90000), iv, hist, DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))

	if ev.Status != StatusOK {
		t.Fatalf("Status = %q, want %q (no mileage baseline)", ev.Status, StatusOK)
	}
	if !strings.Contains(ev.Concise, "next unknown") {
		t.Errorf("Concise = %q, want next-unknown phrase", ev.Concise)
	}
}

func TestEvaluate_NoHistoryMilesFromZero(t *testing.T) {
	t.Parallel()

	// No history: mileage baseline is zero miles, so a 75k interval on a 90k
	// vehicle is overdue.
	iv := &Interval{Miles: 75000}

	ev := Evaluate(ItemTransmission, testVehicle(90000), iv, NoHistory(), DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))

	if ev.Status != StatusDueNow {
		t.Errorf("Status = %q, want %q", ev.Status, StatusDueNow)
	}
}

func TestEvaluate_MileageMonotonicity(t *testing.T) {
	t.Parallel()

	rank := map[Status]int{StatusOK: 0, StatusDueSoon: 1, StatusDueNow: 2}
	today := date(2023, time.July, 1)

	prev := StatusOK
	for miles := 40000; miles <= 46000; miles += 100 {
		ev := evalOil(t, miles, today)
		if rank[ev.Status] < rank[prev] {
			t.Fatalf("status went backward at %d miles: %q after %q", miles, ev.Status, prev)
		}
		prev = ev.Status
	}
	if prev != StatusDueNow {
		t.Errorf("final status = %q, want %q", prev, StatusDueNow)
	}
}

func TestEvaluate_TimeMonotonicity(t *testing.T) {
	t.Parallel()

	rank := map[Status]int{StatusOK: 0, StatusDueSoon: 1, StatusDueNow: 2}
	v := testVehicle(41000) // mileage never due

	iv := &Interval{Years: 2}
	hist := KnownHistory(40000, date(2022, time.June, 1))

	prev := StatusOK
	for today := date(2023, time.January, 1); today.Year() < 2025; today = today.AddDate(0, 1, 0) {
		ev := Evaluate(ItemBrakeFluid, v, iv, hist, DefaultThresholds(), DefaultBullets(), today)
		if rank[ev.Status] < rank[prev] {
			t.Fatalf("status went backward at %s: %q after %q", today.Format("2006-01"), ev.Status, prev)
		}
		prev = ev.Status
	}
	if prev != StatusDueNow {
		t.Errorf("final status = %q, want %q", prev, StatusDueNow)
	}
}

func TestEvaluate_NAForAnyInput(t *testing.T) {
	t.Parallel()

	vehicles := []Vehicle{testVehicle(0), testVehicle(500000), {Model: "unknown"}}
	histories := []History{NoHistory(), KnownHistory(12000, date(2020, time.January, 1)), {Kind: HistoryKnown}}

	for _, v := range vehicles {
		for _, hist := range histories {
			ev := Evaluate(ItemOxygenSensor, v, nil, hist, DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))
			if ev.Status != StatusNA || ev.Bulk != "" {
				t.Errorf("Evaluate(no interval) = (%q, bulk %q), want (na, empty)", ev.Status, ev.Bulk)
			}

			ev = Evaluate(ItemOxygenSensor, v, &Interval{Years: 2}, NotEquipped(), DefaultThresholds(), DefaultBullets(), date(2024, time.May, 1))
			if ev.Status != StatusNA || ev.Bulk != "" {
				t.Errorf("Evaluate(not equipped) = (%q, bulk %q), want (na, empty)", ev.Status, ev.Bulk)
			}
		}
	}
}

func TestLastDoneText(t *testing.T) {
	t.Parallel()

	v := testVehicle(50000)

	tests := []struct {
		name string
		hist History
		want string
	}{
		{"date and miles", KnownHistory(40000, date(2023, time.June, 1)), "last 06/2023 @ 40,000 mi"},
		{"date only", KnownHistory(0, date(2023, time.June, 1)), "last 06/2023"},
		{"miles only", KnownHistory(40000, time.Time{}), "last @ 40,000 mi"},
		{"known but empty", History{Kind: HistoryKnown}, "history known (missing)"},
		{"no history with production date", NoHistory(), "no history (baseline 06/2013)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := lastDoneText(tt.hist, v); got != tt.want {
				t.Errorf("lastDoneText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComma(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{45000, "45,000"},
		{1234567, "1,234,567"},
		{-5200, "-5,200"},
	}
	for _, tt := range tests {
		if got := comma(tt.n); got != tt.want {
			t.Errorf("comma(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
