package task

import "time"

// DateLayout is the calendar date format used for due dates and history keys.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// AddDays shifts a calendar date by n days. Invalid input is returned unchanged.
func AddDays(date string, n int) string {
	d, err := ParseDate(date)
	if err != nil {
		return date
	}
	return FormatDate(d.AddDate(0, 0, n))
}

// DaysBetween returns to - from in whole calendar days. ok is false when either
// date fails to parse.
func DaysBetween(from, to string) (days int, ok bool) {
	f, err := ParseDate(from)
	if err != nil {
		return 0, false
	}
	t, err := ParseDate(to)
	if err != nil {
		return 0, false
	}
	return int(t.Sub(f).Hours() / 24), true
}

// SameMonth reports whether two calendar dates share year and month.
func SameMonth(a, b string) bool {
	return len(a) >= 7 && len(b) >= 7 && a[:7] == b[:7]
}

// SameYear reports whether two calendar dates share a year.
func SameYear(a, b string) bool {
	return len(a) >= 4 && len(b) >= 4 && a[:4] == b[:4]
}
