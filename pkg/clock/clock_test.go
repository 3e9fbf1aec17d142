package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStamp(t *testing.T) {
	saoPaulo := time.FixedZone("-03", -3*60*60)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "negative offset",
			in:   time.Date(2026, 3, 14, 18, 4, 5, 0, saoPaulo),
			want: "2026-03-14T18:04:05.000-03:00",
		},
		{
			name: "positive offset",
			in:   time.Date(2026, 3, 14, 18, 4, 5, 120*int(time.Millisecond), time.FixedZone("+05:30", 5*3600+30*60)),
			want: "2026-03-14T18:04:05.120+05:30",
		},
		{
			name: "utc keeps explicit zero offset",
			in:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "2026-01-01T00:00:00.000+00:00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stamp(tt.in))
		})
	}
}

func TestFixed(t *testing.T) {
	at := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	var c Clock = Fixed{T: at}
	assert.Equal(t, at, c.Now())
	assert.Equal(t, at, c.Now(), "fixed clock must not advance")
}
