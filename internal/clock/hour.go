package clock

// HourTracker detects hour-boundary crossings. A boundary fires at most once
// per distinct hour value: observing the same hour again does not refire.
type HourTracker struct {
	lastTrackedHour int // -1 until first observation
}

// NewHourTracker creates a tracker with no observed hour.
func NewHourTracker() *HourTracker {
	return &HourTracker{lastTrackedHour: -1}
}

// Changed records the observation of now and reports whether its hour differs
// from the last tracked hour. The first observation on a fresh tracker
// reports true; use Prime at startup to suppress that initial firing.
func (h *HourTracker) Changed(now Timestamp) bool {
	if now.Hour == h.lastTrackedHour {
		return false
	}
	h.lastTrackedHour = now.Hour
	return true
}

// Prime records the current hour without reporting a boundary. Called once
// at startup when the clock is available, mirroring the boot path that seeds
// the tracker from the RTC.
func (h *HourTracker) Prime(now Timestamp) {
	h.lastTrackedHour = now.Hour
}

// Last returns the last tracked hour, or -1 if none was observed.
func (h *HourTracker) Last() int {
	return h.lastTrackedHour
}
