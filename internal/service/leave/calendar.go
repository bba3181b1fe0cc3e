package leave

import "time"

// businessDays counts the calendar days from start to end inclusive
// whose weekday is not Saturday or Sunday. Holidays are not considered.
func businessDays(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}

	days := 0.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// totalDays computes the deductible duration of a request. A half day
// is 0.5 regardless of the date range.
func totalDays(start, end time.Time, isHalfDay bool) float64 {
	if isHalfDay {
		return 0.5
	}
	return businessDays(start, end)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
