package plan

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ServicedTodayMarker replaces the last-done text when an item is being
// performed during the current visit.
const ServicedTodayMarker = "SCV'D TODAY"

const notEquippedText = "not equipped / not serviceable"

// Evaluate classifies one service item and renders its three text forms.
// Pure function of its inputs: safe to call concurrently per item or per
// vehicle. iv is nil when no interval is configured for the item.
//
// Resolution order: not-equipped wins, then missing interval, then the
// mileage and time checks composed with OR semantics (either dimension alone
// forces due_now or due_soon).
func Evaluate(item Item, v Vehicle, iv *Interval, hist History, th Thresholds, bullets Bullets, today time.Time) Evaluation {
	if hist.Kind == HistoryNotEquipped {
		line := fmt.Sprintf("%s — %s", item, notEquippedText)
		return Evaluation{Item: item, Status: StatusNA, Concise: line, Verbose: line}
	}

	lastDone := lastDoneText(hist, v)
	if hist.PerformedThisVisit {
		lastDone = ServicedTodayMarker
	}

	if iv == nil {
		line := fmt.Sprintf("%s — %s — interval not set", item, lastDone)
		return Evaluation{Item: item, Status: StatusNA, Concise: line, Verbose: line}
	}

	baseMiles, hasBaseMiles := milesBaseline(hist)
	baseDate, hasBaseDate := dateBaseline(hist, v)

	var (
		milesDue, milesSoon bool
		timeDue, timeSoon   bool

		nextMiles, nextMilesVerbose string
		nextTime, nextTimeVerbose   string
	)

	if iv.Miles > 0 && hasBaseMiles {
		dueAt := baseMiles + iv.Miles
		remaining := dueAt - v.CurrentMiles

		milesDue = v.CurrentMiles >= dueAt
		milesSoon = !milesDue && remaining <= th.MilesFor(item)

		if remaining >= 0 {
			nextMiles = fmt.Sprintf("next ~%s mi", comma(dueAt))
			nextMilesVerbose = fmt.Sprintf("miles due @ %s (in %s)", comma(dueAt), comma(remaining))
		} else {
			nextMiles = fmt.Sprintf("due was %s mi", comma(dueAt))
			nextMilesVerbose = fmt.Sprintf("miles due @ %s (over %s)", comma(dueAt), comma(-remaining))
		}
	}

	if iv.Years > 0 && hasBaseDate {
		dueDate := AddYears(baseDate, iv.Years)
		monthsToDue := MonthsBetween(today, dueDate)

		timeDue = !today.Before(dueDate)
		timeSoon = !timeDue && monthsToDue <= th.MonthsFor(item)

		md := monthYear(dueDate)
		if monthsToDue >= 0 {
			nextTime = "next ~" + md
			nextTimeVerbose = fmt.Sprintf("time due %s (in ~%d mo)", md, monthsToDue)
		} else {
			nextTime = "due was " + md
			nextTimeVerbose = fmt.Sprintf("time due %s (over ~%d mo)", md, -monthsToDue)
		}
	}

	var status Status
	switch {
	case milesDue || timeDue:
		status = StatusDueNow
	case milesSoon || timeSoon:
		status = StatusDueSoon
	default:
		status = StatusOK
	}

	intervalPhrase := intervalPhraseShort(*iv)
	conciseNext := joinNextDue(" / ", nextMiles, nextTime)
	verboseNext := joinNextDue(" • ", nextMilesVerbose, nextTimeVerbose)

	return Evaluation{
		Item:    item,
		Status:  status,
		Concise: fmt.Sprintf("%s — %s — %s — %s", item, lastDone, intervalPhrase, conciseNext),
		Verbose: fmt.Sprintf("%s — %s — %s • %s", item, lastDone, intervalPhrase, verboseNext),
		Bulk:    bulkLine(item, status, lastDone, *iv, bullets),
	}
}

// milesBaseline returns the reference odometer reading and whether a mileage
// check is possible. Known history with a zero reading means "not tracked";
// no history means the baseline is zero miles from the factory.
func milesBaseline(hist History) (int, bool) {
	switch hist.Kind {
	case HistoryKnown:
		return hist.LastMiles, hist.LastMiles > 0
	case HistoryNone:
		return 0, true
	default:
		return 0, false
	}
}

// dateBaseline returns the reference date and whether a time check is
// possible: last service date, or the production date when no history exists.
func dateBaseline(hist History, v Vehicle) (time.Time, bool) {
	switch hist.Kind {
	case HistoryKnown:
		return hist.LastDate, !hist.LastDate.IsZero()
	case HistoryNone:
		if v.ProdUnknown || v.Production.IsZero() {
			return time.Time{}, false
		}
		return v.Production, true
	default:
		return time.Time{}, false
	}
}

// lastDoneText renders the stored history without the serviced-today
// override.
func lastDoneText(hist History, v Vehicle) string {
	if hist.Kind == HistoryKnown {
		hasDate := !hist.LastDate.IsZero()
		hasMiles := hist.LastMiles > 0
		switch {
		case hasDate && hasMiles:
			return fmt.Sprintf("last %s @ %s mi", monthYear(hist.LastDate), comma(hist.LastMiles))
		case hasDate:
			return "last " + monthYear(hist.LastDate)
		case hasMiles:
			return fmt.Sprintf("last @ %s mi", comma(hist.LastMiles))
		default:
			return "history known (missing)"
		}
	}

	if v.ProdUnknown || v.Production.IsZero() {
		return "no history (baseline unknown)"
	}
	return fmt.Sprintf("no history (baseline %s)", monthYear(v.Production))
}

func intervalPhraseShort(iv Interval) string {
	var parts []string
	if iv.Years > 0 {
		parts = append(parts, fmt.Sprintf("every %d yr", iv.Years))
	}
	if iv.Miles > 0 {
		parts = append(parts, fmt.Sprintf("every %s mi", comma(iv.Miles)))
	}
	if len(parts) == 0 {
		return "interval not set"
	}
	return strings.Join(parts, " / ")
}

func joinNextDue(sep string, parts ...string) string {
	var present []string
	for _, p := range parts {
		if p != "" {
			present = append(present, p)
		}
	}
	if len(present) == 0 {
		return "next unknown"
	}
	return strings.Join(present, sep)
}

func monthYear(d time.Time) string { return d.Format("01/2006") }

// comma renders n with thousands separators ("44,800").
func comma(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
