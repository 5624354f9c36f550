package transactions

import "time"

// Reporting windows are computed in UTC so that a request near midnight
// cannot land in different months depending on the server's local zone.

// weekRange returns the half-open interval [Monday 00:00, next Monday 00:00)
// of the ISO week containing now. Go numbers Sunday as weekday 0, so Sunday
// rolls back six days to the preceding Monday rather than forward.
func weekRange(now time.Time) (start, end time.Time) {
	now = now.UTC()
	offset := int(now.Weekday()) - 1
	if offset < 0 {
		offset = 6
	}
	start = time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

// monthRange returns the half-open interval covering the calendar month
// containing now.
func monthRange(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// fillWeek expands sparse per-day totals into exactly seven rows, Monday
// through Sunday, zero-filling days without transactions.
func fillWeek(start time.Time, totals map[string]float64) []DayTotal {
	report := make([]DayTotal, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		report = append(report, DayTotal{
			Date:    key,
			DayName: day.Weekday().String(),
			Total:   totals[key],
		})
	}
	return report
}
