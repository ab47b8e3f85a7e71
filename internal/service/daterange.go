package service

import "time"

// DefaultMonths is the range used when the caller supplies none.
const DefaultMonths = 2

const dateFormat = "2006-01-02"

// DateRange is an inclusive calendar range. End is always "today" at fetch
// time; Start is derived from a months-back parameter.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RangeFromMonths builds the "last N months" range, approximating a month as
// 30 days to match the upstream cache layout. A months value below 1 falls
// back to DefaultMonths.
func RangeFromMonths(months int, now time.Time) DateRange {
	if months < 1 {
		months = DefaultMonths
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return DateRange{
		Start: end.AddDate(0, 0, -months*30),
		End:   end,
	}
}

// Dates returns every date in the range ascending, formatted YYYY-MM-DD.
func (r DateRange) Dates() []string {
	var dates []string
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateFormat))
	}
	return dates
}
