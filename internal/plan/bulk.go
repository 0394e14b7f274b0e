package plan

import (
	"fmt"
	"strings"
)

// oilKFormMax bounds the "5K" shorthand: engine-oil miles render as K-form
// only when an exact multiple of 1,000 and at most this value.
const oilKFormMax = 15000

func statusLabel(s Status) string {
	switch s {
	case StatusDueNow:
		return "DUE NOW"
	case StatusDueSoon:
		return "DUE SOON"
	default:
		return "OK"
	}
}

// bulkLine renders the tight customer/RO line for one evaluated item.
// Callers must not invoke it for na items.
func bulkLine(item Item, status Status, lastDone string, iv Interval, bullets Bullets) string {
	return fmt.Sprintf("%s %s — %s %s • %s",
		bullets.For(status), item, statusLabel(status), lastDone, intervalPhraseBulk(iv, item))
}

// intervalPhraseBulk renders the interval for bulk output. Engine oil gets
// the "DUE" prefix and K-form mileage; everything else reads "interval ...".
func intervalPhraseBulk(iv Interval, item Item) string {
	var parts []string
	if iv.Years > 0 {
		parts = append(parts, fmt.Sprintf("%d yr", iv.Years))
	}
	if iv.Miles > 0 {
		if item == ItemEngineOil && iv.Miles%1000 == 0 && iv.Miles <= oilKFormMax {
			parts = append(parts, fmt.Sprintf("%dK", iv.Miles/1000))
		} else {
			parts = append(parts, comma(iv.Miles)+" mi")
		}
	}

	if len(parts) == 0 {
		return "interval ?"
	}
	if item == ItemEngineOil {
		return "DUE " + strings.Join(parts, " / ")
	}
	return "interval " + strings.Join(parts, " / ")
}
