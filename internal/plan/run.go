package plan

import (
	"strings"
	"time"
)

// Context carries every input of one planning run explicitly. Nothing in the
// engine reads ambient state.
type Context struct {
	Vehicle    Vehicle
	Intervals  IntervalSet
	History    map[Item]History
	Thresholds Thresholds
	Bullets    Bullets
	Today      time.Time
}

// Results buckets one planning run's evaluations by status, in planning
// order, plus the ordered bulk output lines (na excluded).
type Results struct {
	DueNow  []Evaluation `json:"due_now"`
	DueSoon []Evaluation `json:"due_soon"`
	OK      []Evaluation `json:"ok"`
	NA      []Evaluation `json:"na"`

	BulkLines []string `json:"bulk_lines"`
}

// Run evaluates the full item list against pc. Items missing from pc.History
// are treated as having no history.
func Run(pc Context) *Results {
	r := &Results{}
	for _, item := range Items() {
		hist, ok := pc.History[item]
		if !ok {
			hist = NoHistory()
		}

		ev := Evaluate(item, pc.Vehicle, pc.Intervals.Get(item), hist, pc.Thresholds, pc.Bullets, pc.Today)

		switch ev.Status {
		case StatusDueNow:
			r.DueNow = append(r.DueNow, ev)
		case StatusDueSoon:
			r.DueSoon = append(r.DueSoon, ev)
		case StatusOK:
			r.OK = append(r.OK, ev)
		default:
			r.NA = append(r.NA, ev)
		}

		if ev.Bulk != "" {
			r.BulkLines = append(r.BulkLines, ev.Bulk)
		}
	}
	return r
}

// BulkText joins the bulk lines into the copy/paste block.
func (r *Results) BulkText() string { return strings.Join(r.BulkLines, "\n") }
