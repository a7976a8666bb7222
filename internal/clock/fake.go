package clock

// Fake is a scripted clock for tests.
type Fake struct {
	// Time is the timestamp returned by Now.
	Time Timestamp

	// Down, if set, makes Available report false.
	Down bool
}

// NewFake creates a Fake reporting the given timestamp.
func NewFake(ts Timestamp) *Fake {
	return &Fake{Time: ts}
}

// Now returns the scripted timestamp.
func (f *Fake) Now() Timestamp { return f.Time }

// Available reports the scripted availability.
func (f *Fake) Available() bool { return !f.Down }

// Advance moves the scripted time forward by whole hours, wrapping at 24.
func (f *Fake) Advance(hours int) {
	f.Time.Hour = (f.Time.Hour + hours) % 24
}
