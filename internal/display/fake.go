package display

// ShownScreen records one Show call.
type ShownScreen struct {
	Screen Screen
	Data   Data
}

// Fake records shown screens for test assertions.
type Fake struct {
	// Screens contains every Show call in order.
	Screens []ShownScreen

	// SystemEvents contains every PublishSystem call.
	SystemEvents []SystemEvent

	// NotReady makes Ready report false.
	NotReady bool

	// Closed tracks whether Close was called.
	Closed bool
}

// NewFake creates a ready Fake.
func NewFake() *Fake {
	return &Fake{}
}

// Show records the screen.
func (f *Fake) Show(s Screen, d Data) {
	f.Screens = append(f.Screens, ShownScreen{Screen: s, Data: d})
}

// PublishSystem records the event.
func (f *Fake) PublishSystem(ev SystemEvent) error {
	f.SystemEvents = append(f.SystemEvents, ev)
	return nil
}

// Ready reports the scripted readiness.
func (f *Fake) Ready() bool {
	return !f.NotReady
}

// Close marks the fake closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently shown screen, or nil.
func (f *Fake) Last() *ShownScreen {
	if len(f.Screens) == 0 {
		return nil
	}
	return &f.Screens[len(f.Screens)-1]
}
