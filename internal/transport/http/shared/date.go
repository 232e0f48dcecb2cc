package shared

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate reads a calendar date from a form field. A full RFC3339
// timestamp keeps the date written in it, ignoring the clock part.
// The result is that date at UTC midnight, the way dates are stored.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		stamp, stampErr := time.Parse(time.RFC3339, value)
		if stampErr != nil {
			return time.Time{}, err
		}
		parsed = stamp
	}
	y, m, d := parsed.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
