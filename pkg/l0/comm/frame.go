package comm

import (
	"fmt"
	"io"
	"strings"
)

// Wire constants.
const (
	Header1     byte = 0xAA
	Header2     byte = 0x55
	PayloadBias byte = 0x0A
	FrameLen         = 4
)

// DefaultDeviceCount is the number of solenoids on the reference board.
const DefaultDeviceCount = 9

// Action is the direction of a solenoid pulse.
type Action byte

// Actions.
const (
	ActionRetract Action = 0
	ActionExtend  Action = 1
)

// IsValid checks if it's a known action.
func (a Action) IsValid() bool {
	return a == ActionRetract || a == ActionExtend
}

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case ActionRetract:
		return "retract"
	case ActionExtend:
		return "extend"
	}
	return fmt.Sprintf("action(%d)", byte(a))
}

// ParseAction accepts "in"/"retract" and "out"/"extend", case-insensitive.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "in", "retract":
		return ActionRetract, nil
	case "out", "extend":
		return ActionExtend, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Command is a decoded frame.
type Command struct {
	Device int
	Action Action
}

// Validate checks the command against the number of devices.
func (c Command) Validate(deviceCount int) error {
	if c.Device < 0 || c.Device >= deviceCount {
		return fmt.Errorf("%w: %d", ErrInvalidDevice, c.Device)
	}
	if !c.Action.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidAction, byte(c.Action))
	}
	return nil
}

// String implements fmt.Stringer.
func (c Command) String() string {
	return fmt.Sprintf("device %d %s", c.Device, c.Action)
}

// Frame returns the encoded frame. The command is not validated.
func (c Command) Frame() Frame {
	return Frame{Header1, Header2, byte(c.Device) + PayloadBias, byte(c.Action) + PayloadBias}
}

// Frame is the raw 4-byte frame.
type Frame [FrameLen]byte

// Bytes returns encoded bytes for sending.
func (f Frame) Bytes() []byte {
	return f[:]
}

// WriteTo writes encoded bytes in a single Write.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f[:])
	return int64(n), err
}

// String formats the frame as hex bytes, e.g. "AA 55 0A 0B".
func (f Frame) String() string {
	return fmt.Sprintf("%02X %02X %02X %02X", f[0], f[1], f[2], f[3])
}

// Decode validates the frame and extracts the command.
func (f Frame) Decode(deviceCount int) (Command, error) {
	if f[0] != Header1 || f[1] != Header2 {
		return Command{}, ErrBadHeader
	}
	device := int(f[2]) - int(PayloadBias)
	if device < 0 || device >= deviceCount {
		return Command{}, &PayloadError{Err: ErrInvalidDevice, Raw: f[2], Value: device}
	}
	action := int(f[3]) - int(PayloadBias)
	if action != int(ActionRetract) && action != int(ActionExtend) {
		return Command{}, &PayloadError{Err: ErrInvalidAction, Raw: f[3], Value: action}
	}
	return Command{Device: device, Action: Action(action)}, nil
}
