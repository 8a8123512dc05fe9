//go:build linux

package device

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	testCases := []struct {
		name    string
		raw     [jsEventSize]byte
		event   Event
		pressed bool
	}{
		{"button press", [jsEventSize]byte{0, 0, 0, 0, 1, 0, jsEventButton, 3},
			Event{Kind: KindButton, Number: 3, Value: 1}, true},
		{"button release", [jsEventSize]byte{0, 0, 0, 0, 0, 0, jsEventButton, 3},
			Event{Kind: KindButton, Number: 3}, false},
		{"initial button state", [jsEventSize]byte{0, 0, 0, 0, 1, 0, jsEventButton | jsEventInit, 1},
			Event{Kind: KindButton, Number: 1, Value: 1, Init: true}, false},
		{"axis", [jsEventSize]byte{0, 0, 0, 0, 0x00, 0x80, jsEventAxis, 0},
			Event{Kind: KindAxis, Value: -32768}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev := decodeEvent(tc.raw)
			require.Equal(t, tc.event, ev)
			require.Equal(t, tc.pressed, ev.Pressed())
		})
	}
}
