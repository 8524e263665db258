package domain

import (
	"fmt"
	"time"
)

// ISODateTime is the transport format for timestamps, matching what the
// frontend already consumes.
const ISODateTime = "2006-01-02T15:04:05"

// ISODate is the strict calendar-date format used by time windows.
const ISODate = "2006-01-02"

// isoFormats are accepted on single-record creation, most specific first.
var isoFormats = []string{
	time.RFC3339,
	ISODateTime,
	ISODate,
}

// flexibleFormats are accepted on bulk import, tried in order. The order is
// load-bearing: an ambiguous string like "03/04/2025" parses as March 4
// because MM/DD/YYYY is tried before DD/MM/YYYY.
var flexibleFormats = []string{
	ISODate,
	"01/02/2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
}

// ParseISODate parses an ISO-8601 date or datetime string.
func ParseISODate(s string) (time.Time, error) {
	return parseAny(s, isoFormats)
}

// ParseFlexibleDate parses a bulk-import date string, trying each supported
// format in order until one matches.
func ParseFlexibleDate(s string) (time.Time, error) {
	return parseAny(s, flexibleFormats)
}

func parseAny(s string, formats []string) (time.Time, error) {
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// StartOfDay truncates t to midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay extends t to 23:59:59, making day ranges inclusive of the end date.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
