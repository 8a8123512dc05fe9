package device

import "io"

// Kind is the source of an event.
type Kind uint8

// Event kinds.
const (
	KindButton Kind = iota + 1
	KindAxis
)

// Event is one change reported by a joystick.
type Event struct {
	Kind Kind
	// Number is the button or axis index.
	Number int
	Value  int
	// Init marks the synthetic events reporting the initial state
	// right after open.
	Init bool
}

// Pressed reports a button going down. Initial state is never a press.
func (e Event) Pressed() bool {
	return e.Kind == KindButton && !e.Init && e.Value != 0
}

// Device is an opened joystick.
type Device interface {
	io.Closer
	Index() int
	Name() string
	ButtonCount() int
	ReadEvent() (Event, error)
}
