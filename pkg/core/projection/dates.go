package projection

import "time"

// endOfMonth returns the last day of the given month.
func endOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

// Dates produces n forward fiscal-period-end dates one year apart,
// preserving the fiscal month of the anchor (the most recent historical
// period end). Each date is a month-end, so February and 30-day months
// come out right regardless of the anchor's day.
func Dates(anchor time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = endOfMonth(anchor.Year()+i+1, anchor.Month())
	}
	return out
}
