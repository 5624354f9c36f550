package budgets

import (
	"regexp"
	"time"
)

// monthPattern accepts strict YYYY-MM values with a real month number.
var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// validMonth reports whether m is a well-formed YYYY-MM month.
func validMonth(m string) bool {
	return monthPattern.MatchString(m)
}

// currentMonth returns the current calendar month in YYYY-MM form. It uses
// server wall-clock time in UTC, never a client-supplied "today".
func currentMonth(now time.Time) string {
	return now.UTC().Format("2006-01")
}
