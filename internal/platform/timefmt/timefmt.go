package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// Layout writes timezone-naive local timestamps with optional microseconds,
// e.g. 2026-10-16T09:00:00 or 2026-10-16T13:45:12.123456.
const Layout = "2006-01-02T15:04:05.999999"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func Format(t time.Time) string {
	return t.Local().Format(Layout)
}

// Parse reads naive timestamps as local time. Values carrying an offset are
// converted to local time.
func Parse(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.Local(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
