package comm

import (
	"fmt"
	"time"
)

// DefaultTimeout bounds the gap between two bytes of the same frame.
const DefaultTimeout = 100 * time.Millisecond

// State is the receiving state, which is also the number of bytes
// captured for the current frame.
type State int

const (
	// StateEmpty means waiting for Header1.
	StateEmpty State = iota
	// StateHeader1Seen means waiting for Header2.
	StateHeader1Seen
	// StatePayloadByte1 means waiting for the device byte.
	StatePayloadByte1
	// StatePayloadByte2 means waiting for the action byte.
	StatePayloadByte2
)

// Filled returns the number of bytes captured in this state.
func (s State) Filled() int {
	return int(s)
}

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateHeader1Seen:
		return "header1-seen"
	case StatePayloadByte1:
		return "payload-byte1"
	case StatePayloadByte2:
		return "payload-byte2"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	State State
	// Frame is set when the step completed a frame, whether or not it decodes.
	Frame *Frame
	// Command is set when the completed frame is valid.
	Command *Command
	// Err is set when the completed frame is dropped.
	Err error
}

// Parser assembles frames from bytes received one at a time.
// The zero value is ready to use with DefaultTimeout and DefaultDeviceCount.
type Parser struct {
	Timeout     time.Duration
	DeviceCount int

	state      State
	buf        Frame
	lastByteAt time.Time
}

// NewParser creates a Parser for deviceCount devices.
func NewParser(deviceCount int) *Parser {
	return &Parser{Timeout: DefaultTimeout, DeviceCount: deviceCount}
}

// State gets the current state.
func (p *Parser) State() State {
	return p.state
}

// Reset discards a partially received frame.
func (p *Parser) Reset() {
	p.state = StateEmpty
}

// Expire discards a partial frame if the last byte is older than
// Timeout at now. It returns true if a frame was discarded.
func (p *Parser) Expire(now time.Time) bool {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if p.state == StateEmpty || now.Sub(p.lastByteAt) <= timeout {
		return false
	}
	p.Reset()
	return true
}

// Parse consumes one byte received at now.
func (p *Parser) Parse(b byte, now time.Time) (pr ParseResult) {
	p.lastByteAt = now
	switch p.state {
	case StateEmpty:
		if b == Header1 {
			p.buf[0], p.state = b, StateHeader1Seen
		}
	case StateHeader1Seen:
		switch b {
		case Header2:
			p.buf[1], p.state = b, StatePayloadByte1
		case Header1:
			// a new frame may start right after a stray header byte.
			p.buf[0] = b
		default:
			p.Reset()
		}
	case StatePayloadByte1:
		p.buf[2], p.state = b, StatePayloadByte2
	case StatePayloadByte2:
		p.buf[3] = b
		return p.frameReady()
	}
	pr.State = p.state
	return
}

func (p *Parser) frameReady() (pr ParseResult) {
	frame := p.buf
	p.Reset()
	deviceCount := p.DeviceCount
	if deviceCount == 0 {
		deviceCount = DefaultDeviceCount
	}
	pr.State, pr.Frame = p.state, &frame
	cmd, err := frame.Decode(deviceCount)
	if err != nil {
		pr.Err = err
		return
	}
	pr.Command = &cmd
	return
}
