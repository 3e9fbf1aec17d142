// Package clock abstracts wall-clock access and the timestamp wire format the
// check-in backends expect: ISO-8601 with millisecond precision and an explicit
// numeric UTC offset (e.g. 2026-03-14T18:04:05.000-03:00).
package clock

import "time"

// Clock produces the current time. Services take a Clock so tests can pin it.
type Clock interface {
	Now() time.Time
}

// System reads the device clock in its local zone.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// stampLayout keeps the millisecond field even when zero; the backends were
// only ever fed timestamps in this exact shape.
const stampLayout = "2006-01-02T15:04:05.000-07:00"

// Stamp renders t in the backend wire format using t's own zone offset.
func Stamp(t time.Time) string {
	return t.Format(stampLayout)
}
