// internal/receipt/render/esdate_test.go
package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateLabel(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "january single digit day",
			in:   time.Date(2026, time.January, 2, 15, 4, 0, 0, time.UTC),
			want: "2 ene 2026, 15:04",
		},
		{
			name: "september uses four letter abbreviation",
			in:   time.Date(2025, time.September, 18, 9, 30, 0, 0, time.UTC),
			want: "18 sept 2025, 09:30",
		},
		{
			name: "midnight keeps 24h clock",
			in:   time.Date(2026, time.December, 31, 0, 5, 0, 0, time.UTC),
			want: "31 dic 2026, 00:05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDateLabel(tt.in))
		})
	}
}

func TestParseOrderTime(t *testing.T) {
	fixed := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixed }

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "rfc3339",
			raw:  "2026-02-14T18:30:00Z",
			want: time.Date(2026, time.February, 14, 18, 30, 0, 0, time.UTC),
		},
		{
			name: "space separated",
			raw:  "2026-02-14 18:30",
			want: time.Date(2026, time.February, 14, 18, 30, 0, 0, time.UTC),
		},
		{
			name: "date only",
			raw:  "2026-02-14",
			want: time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "empty falls back to now",
			raw:  "",
			want: fixed,
		},
		{
			name: "garbage falls back to now",
			raw:  "mañana a las cinco",
			want: fixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOrderTime(tt.raw, now)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}
