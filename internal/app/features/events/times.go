// internal/app/features/events/times.go
package events

import (
	"fmt"
	"time"
)

// dateLayouts are accepted for the eventDate form field.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// clockLayouts are accepted for the time-of-day form fields.
var clockLayouts = []string{"15:04", "15:04:05"}

// parseEventDate parses the eventDate field, keeping only the calendar
// date in UTC.
func parseEventDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.UTC().Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// combineDateTime joins the calendar date with a time-of-day string,
// interpreted as UTC. The portal and the admin backend exchange all
// event timestamps in UTC.
func combineDateTime(date time.Time, clock string) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return time.Date(date.Year(), date.Month(), date.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", clock)
}
