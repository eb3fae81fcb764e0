package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnrecognizedPeriod = errors.New("unrecognized period")
	ErrUnrecognizedDate   = errors.New("unrecognized date")
)

// Range is an inclusive epoch-millisecond interval covering whole days.
type Range struct {
	Start int64
	End   int64
	Label string
}

// month layouts tried in order after the keyword forms
var monthLayouts = []string{"January 2006", "Jan 2006"}

// ParseRange turns a chat period phrase into the calendar month it names.
// Blank input means the current month. Months without a year are taken
// from now's year. Day boundaries are computed in now's location.
func ParseRange(period string, now time.Time) (Range, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	loc := now.Location()

	switch p {
	case "", "this month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return monthRange(start, "This Month ("+start.Format("January 2006")+")"), nil
	case "last month":
		start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, loc)
		return monthRange(start, "Last Month ("+start.Format("January 2006")+")"), nil
	}

	for _, layout := range monthLayouts {
		if t, err := time.ParseInLocation(layout, p, loc); err == nil {
			return monthOf(t.Year(), t.Month(), loc), nil
		}
	}
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.ParseInLocation(layout, p, loc); err == nil {
			return monthOf(now.Year(), t.Month(), loc), nil
		}
	}
	if year, month, ok := splitNumeric(p, "-", true); ok {
		return monthOf(year, month, loc), nil
	}
	if year, month, ok := splitNumeric(p, "/", false); ok {
		return monthOf(year, month, loc), nil
	}

	return Range{}, fmt.Errorf("%w: %q", ErrUnrecognizedPeriod, period)
}

// ParseDate resolves "today", "yesterday", YYYY-MM-DD, MM/DD/YYYY or a
// "March 5" style date in now's year, to midnight of that day in epoch ms.
// Blank input means today.
func ParseDate(s string, now time.Time) (int64, error) {
	d := strings.ToLower(strings.TrimSpace(s))
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch d {
	case "", "today":
		return today.UnixMilli(), nil
	case "yesterday":
		return today.AddDate(0, 0, -1).UnixMilli(), nil
	}

	for _, layout := range []string{"2006-01-02", "01/02/2006", "1/2/2006"} {
		if t, err := time.ParseInLocation(layout, d, loc); err == nil {
			return t.UnixMilli(), nil
		}
	}
	for _, layout := range []string{"January 2", "Jan 2"} {
		if t, err := time.ParseInLocation(layout, d, loc); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).UnixMilli(), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedDate, s)
}

func monthOf(year int, month time.Month, loc *time.Location) Range {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return monthRange(start, start.Format("January 2006"))
}

func monthRange(start time.Time, label string) Range {
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return Range{Start: start.UnixMilli(), End: end.UnixMilli(), Label: label}
}

// splitNumeric parses "YYYY<sep>MM" when yearFirst, else "MM<sep>YYYY".
func splitNumeric(s, sep string, yearFirst bool) (int, time.Month, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	year, month := a, b
	if !yearFirst {
		year, month = b, a
	}
	if month < 1 || month > 12 || year < 1970 || year > 9999 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}
