package plan

import "time"

// AddYears shifts d forward by whole years, clamping Feb 29 to Feb 28 when
// the target year is not a leap year. time.Time.AddDate would roll over to
// Mar 1 instead, which pushes a due date a day late.
func AddYears(d time.Time, years int) time.Time {
	y, m, day := d.Date()
	shifted := time.Date(y+years, m, day, 0, 0, 0, 0, d.Location())
	if shifted.Month() != m {
		shifted = time.Date(y+years, time.February, 28, 0, 0, 0, 0, d.Location())
	}
	return shifted
}

// MonthsBetween returns the calendar-month distance from d1 to d2, ignoring
// day-of-month. A due date on the 1st with "today" anywhere in the same month
// yields 0, not a negative count.
func MonthsBetween(d1, d2 time.Time) int {
	return (d2.Year()-d1.Year())*12 + int(d2.Month()) - int(d1.Month())
}

// EstimateProductionDate returns the June 1 estimate for a model year, used
// as the time baseline when the real build date is unknown. The VIN decoder
// does not provide build dates.
func EstimateProductionDate(modelYear int) time.Time {
	return time.Date(modelYear, time.June, 1, 0, 0, 0, 0, time.UTC)
}
