// Package clock provides wall-clock time to the core as a narrow collaborator
// interface. The core never reads time.Now directly; everything flows through
// a Clock so tests can script it and an absent RTC degrades cleanly.
package clock

import (
	"fmt"
	"time"
)

// EpochYear is the earliest year a timestamp can plausibly carry. Anything
// older means the clock was never set.
const EpochYear = 2020

// Timestamp is a calendar timestamp broken into fields, matching what the
// persistence layer stores and validates.
type Timestamp struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Fallback is the fixed timestamp substituted for file naming when the clock
// is unavailable.
var Fallback = Timestamp{Year: EpochYear, Month: 1, Day: 1}

// FromTime converts a time.Time to a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Valid reports whether every field is in range: year within
// [EpochYear, 2100], month 1-12, day 1-31, hour 0-23, minute/second 0-59.
func (ts Timestamp) Valid() bool {
	return ts.Year >= EpochYear && ts.Year <= 2100 &&
		ts.Month >= 1 && ts.Month <= 12 &&
		ts.Day >= 1 && ts.Day <= 31 &&
		ts.Hour >= 0 && ts.Hour <= 23 &&
		ts.Minute >= 0 && ts.Minute <= 59 &&
		ts.Second >= 0 && ts.Second <= 59
}

// IsZero reports whether the timestamp is the zero value.
func (ts Timestamp) IsZero() bool {
	return ts == Timestamp{}
}

// String formats the timestamp as "2026-03-01 08:05:00".
func (ts Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
}

// FileStamp formats the timestamp for use in report file names, e.g.
// "20260301_080500".
func (ts Timestamp) FileStamp() string {
	return fmt.Sprintf("%04d%02d%02d_%02d%02d%02d",
		ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
}

// Clock supplies the current wall-clock time.
type Clock interface {
	// Now returns the current timestamp. Callers must treat the result as
	// meaningful only when Available reports true.
	Now() Timestamp

	// Available reports whether the clock source is working.
	Available() bool
}

// System reads the operating system clock. It is always available.
type System struct{}

// Now returns the current local time as a Timestamp.
func (System) Now() Timestamp { return FromTime(time.Now()) }

// Available always reports true for the system clock.
func (System) Available() bool { return true }
