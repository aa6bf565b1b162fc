package timex

import (
	"fmt"
	"time"
)

// layouts accepted by ParseTimestamp, tried in order. The naive ISO forms
// come from files written by the first version of the app, which stored
// local wall-clock time without an offset.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// FormatTimestamp renders t the way the credential file stores it.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp accepts RFC 3339 as well as naive ISO-8601 timestamps;
// the latter are interpreted in the local time zone.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
