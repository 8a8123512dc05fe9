package solenoid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

func TestParseDevice(t *testing.T) {
	dev, err := ParseDevice("8")
	require.NoError(t, err)
	require.Equal(t, 8, dev)
	_, err = ParseDevice("x")
	require.ErrorIs(t, err, comm.ErrInvalidDevice)
}

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		name   string
		args   []string
		expect time.Duration
	}{
		{"default", nil, DefaultSweepDelay},
		{"milliseconds", []string{"500"}, 500 * time.Millisecond},
		{"duration", []string{"1.5s"}, 1500 * time.Millisecond},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ParseDuration(tc.args, 0, DefaultSweepDelay)
			require.NoError(t, err)
			require.Equal(t, tc.expect, d)
		})
	}
	_, err := ParseDuration([]string{"soon"}, 0, 0)
	require.Error(t, err)
}

func TestParseHex(t *testing.T) {
	data, err := ParseHex([]string{"AA", "55", "0a0b"})
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0x55, 0x0A, 0x0B}, data)
	_, err = ParseHex([]string{"AZ"})
	require.Error(t, err)
}
