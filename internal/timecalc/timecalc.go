package timecalc

import (
	"fmt"
	"time"
)

// TimestampLayout is the format SQLite's datetime('now') produces, in UTC.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseTimestamp parses an entry timestamp. Stored timestamps are UTC in
// TimestampLayout; RFC 3339 is accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}

// LocalTimestamp renders a stored timestamp in loc as "2006-01-02 15:04".
// Unparsable input is returned unchanged.
func LocalTimestamp(s string, loc *time.Location) string {
	t, err := ParseTimestamp(s)
	if err != nil {
		return s
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// Span returns the number of seconds between two stored timestamps.
func Span(first, last string) (int64, error) {
	a, err := ParseTimestamp(first)
	if err != nil {
		return 0, err
	}
	b, err := ParseTimestamp(last)
	if err != nil {
		return 0, err
	}
	return int64(b.Sub(a).Seconds()), nil
}

// FormatDuration formats seconds as a human-readable string like "3d 4h",
// "1h 40m", "45m" or "30s".
func FormatDuration(seconds int64) string {
	d := seconds / 86400
	h := (seconds % 86400) / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if d > 0 {
		return fmt.Sprintf("%dd %dh", d, h)
	}
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}
