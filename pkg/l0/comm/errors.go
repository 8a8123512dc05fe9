package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrBadHeader indicates a completed frame without the header pair.
	// The Parser never produces such a frame.
	ErrBadHeader = errors.New("bad frame header")
	// ErrInvalidDevice indicates the device index is out of range.
	ErrInvalidDevice = errors.New("invalid device")
	// ErrInvalidAction indicates the action is neither retract nor extend.
	ErrInvalidAction = errors.New("invalid action")
)

// PayloadError reports a frame whose payload failed validation.
type PayloadError struct {
	// Err is ErrInvalidDevice or ErrInvalidAction.
	Err error
	// Raw is the byte on the wire.
	Raw byte
	// Value is Raw with the payload bias removed.
	Value int
}

// Error implements error.
func (e *PayloadError) Error() string {
	return fmt.Sprintf("%v %d (raw byte 0x%02X)", e.Err, e.Value, e.Raw)
}

// Unwrap returns the underlying sentinel error.
func (e *PayloadError) Unwrap() error {
	return e.Err
}

// ErrNoData is returned by ReadByte when no byte is available.
var ErrNoData = errors.New("no data available")
