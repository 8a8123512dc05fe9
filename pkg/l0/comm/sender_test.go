package comm

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/solenoid.go/pkg/framework"
)

func decodeAll(t *testing.T, data []byte) []Command {
	var parser Parser
	var cmds []Command
	now := time.Now()
	for _, b := range data {
		pr := parser.Parse(b, now)
		require.NoError(t, pr.Err)
		if pr.Command != nil {
			cmds = append(cmds, *pr.Command)
		}
	}
	require.Equal(t, StateEmpty, parser.State())
	return cmds
}

func TestSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf)
	require.NoError(t, s.Retract(0))
	require.NoError(t, s.Extend(3))
	require.NoError(t, s.Do(8, "out"))
	require.NoError(t, s.Do(8, "IN"))
	require.Equal(t, []byte{
		0xAA, 0x55, 0x0A, 0x0A,
		0xAA, 0x55, 0x0D, 0x0B,
		0xAA, 0x55, 0x12, 0x0B,
		0xAA, 0x55, 0x12, 0x0A,
	}, buf.Bytes())
}

func TestSenderRejectsInvalidCommands(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf)
	require.ErrorIs(t, s.Extend(9), ErrInvalidDevice)
	require.ErrorIs(t, s.Retract(-1), ErrInvalidDevice)
	require.ErrorIs(t, s.Do(0, "sideways"), ErrInvalidAction)
	require.ErrorIs(t, s.Send(Command{Action: Action(5)}), ErrInvalidAction)
	require.Zero(t, buf.Len())
}

func TestSenderSweep(t *testing.T) {
	var buf bytes.Buffer
	clock := fx.NewManualClock(time.Unix(0, 0))
	s := NewSender(&buf)
	s.DeviceCount, s.Clock = 3, clock
	require.NoError(t, s.Sweep(context.TODO(), 2*time.Second))
	require.Equal(t, []Command{
		{0, ActionExtend}, {0, ActionRetract},
		{1, ActionExtend}, {1, ActionRetract},
		{2, ActionExtend}, {2, ActionRetract},
	}, decodeAll(t, buf.Bytes()))
	require.Len(t, clock.Sleeps(), 6)
}

func TestSenderWave(t *testing.T) {
	var buf bytes.Buffer
	clock := fx.NewManualClock(time.Unix(0, 0))
	s := NewSender(&buf)
	s.DeviceCount, s.Clock = 2, clock
	require.NoError(t, s.Wave(context.TODO(), 300*time.Millisecond, time.Second))
	require.Equal(t, []Command{
		{0, ActionExtend}, {1, ActionExtend},
		{0, ActionRetract}, {1, ActionRetract},
	}, decodeAll(t, buf.Bytes()))
	ms := 300 * time.Millisecond
	require.Equal(t, []time.Duration{ms, ms, time.Second, ms, ms}, clock.Sleeps())
}

func TestSenderSweepCanceled(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf)
	s.Clock = fx.NewManualClock(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.TODO())
	cancel()
	require.Equal(t, context.Canceled, s.Sweep(ctx, time.Second))
	require.Zero(t, buf.Len())
}
