// Package gpio abstracts the digital output lines driving the solenoids.
package gpio

import (
	"errors"
	"fmt"
)

// ErrInvalidPin indicates a pin number the backend doesn't have.
var ErrInvalidPin = errors.New("invalid pin")

// Pin identifies a GPIO line. Numbering is backend specific
// (BCM numbers for the Raspberry Pi backend).
type Pin int

// Level is the output level of a pin.
type Level bool

// Levels.
const (
	Low  Level = false
	High Level = true
)

// String implements fmt.Stringer.
func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Driver drives digital outputs. Calls are synchronous and take
// effect immediately.
type Driver interface {
	// ConfigureOutput configures a pin as a digital output.
	ConfigureOutput(Pin) error
	// Write sets the output level of a pin.
	Write(Pin, Level) error
}

// PinError reports a failure on a specific pin.
type PinError struct {
	Pin Pin
	Op  string
	Err error
}

// Error implements error.
func (e *PinError) Error() string {
	return fmt.Sprintf("gpio %s pin %d: %v", e.Op, e.Pin, e.Err)
}

// Unwrap returns the underlying error.
func (e *PinError) Unwrap() error {
	return e.Err
}
