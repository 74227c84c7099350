package utils

import "time"

const (
	ShortDashDateLayout = "2006-01-02"
	MonthLayout         = "2006-01"
)

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the first day of n consecutive months starting at start.
func MonthRange(start time.Time, n int) []time.Time {
	months := make([]time.Time, 0, n)
	current := MonthStart(start)
	for i := 0; i < n; i++ {
		months = append(months, current)
		current = current.AddDate(0, 1, 0)
	}
	return months
}

// ParseDate parses a YYYY-MM-DD string, returning nil for empty input.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(ShortDashDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
