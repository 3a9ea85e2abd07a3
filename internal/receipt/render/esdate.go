// internal/receipt/render/esdate.go

package render

import (
	"fmt"
	"strings"
	"time"
)

// Chilean Spanish month abbreviations, index 0 is January.
var esMonths = [12]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sept", "oct", "nov", "dic",
}

// acceptedLayouts are tried in order when the order payload carries a
// date string instead of RFC 3339.
var acceptedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatDateLabel renders t as the receipt date line, e.g.
// "2 ene 2026, 15:04".
func FormatDateLabel(t time.Time) string {
	return fmt.Sprintf("%d %s %d, %02d:%02d",
		t.Day(), esMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// ParseOrderTime parses the order timestamp, falling back to now when the
// string is empty or unparseable. The receipt always shows a date.
func ParseOrderTime(raw string, now func() time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range acceptedLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return now()
}
