package actuator

import (
	"errors"
	"fmt"

	"github.com/robotalks/solenoid.go/pkg/gpio"
)

// DefaultPins is the pin table of the reference board, two consecutive
// entries per device.
var DefaultPins = []gpio.Pin{
	4, 5, 13, 14, 15, 16, 17, 18, 19, 21, 22, 23, 25, 26, 27, 32, 33, 2,
}

var (
	// ErrOddPinCount indicates a pin list that can't be split into pairs.
	ErrOddPinCount = errors.New("pin count must be even")
	// ErrDuplicatePin indicates a pin assigned more than once.
	ErrDuplicatePin = errors.New("duplicate pin")
)

// PinPair is the pair of outputs of one device.
type PinPair struct {
	A gpio.Pin
	B gpio.Pin
}

// Map maps device index to PinPair. It's immutable once created.
type Map struct {
	pairs []PinPair
}

// NewMap creates a Map from a pin list, device i using pins[2i] and pins[2i+1].
func NewMap(pins ...gpio.Pin) (*Map, error) {
	if len(pins)%2 != 0 {
		return nil, ErrOddPinCount
	}
	seen := make(map[gpio.Pin]bool, len(pins))
	m := &Map{pairs: make([]PinPair, 0, len(pins)/2)}
	for n := 0; n < len(pins); n += 2 {
		for _, pin := range pins[n : n+2] {
			if seen[pin] {
				return nil, fmt.Errorf("%w: %d", ErrDuplicatePin, pin)
			}
			seen[pin] = true
		}
		m.pairs = append(m.pairs, PinPair{A: pins[n], B: pins[n+1]})
	}
	return m, nil
}

// DefaultMap creates the Map of the reference board.
func DefaultMap() *Map {
	m, err := NewMap(DefaultPins...)
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of devices.
func (m *Map) Len() int {
	return len(m.pairs)
}

// Pair returns the pins of a device.
func (m *Map) Pair(device int) (PinPair, bool) {
	if device < 0 || device >= len(m.pairs) {
		return PinPair{}, false
	}
	return m.pairs[device], true
}

// Pins returns all pins in device order.
func (m *Map) Pins() []gpio.Pin {
	pins := make([]gpio.Pin, 0, len(m.pairs)*2)
	for _, p := range m.pairs {
		pins = append(pins, p.A, p.B)
	}
	return pins
}
