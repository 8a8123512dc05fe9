package gpio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/solenoid.go/pkg/framework"
)

func TestRecorder(t *testing.T) {
	clock := fx.NewManualClock(time.Unix(100, 0))
	r := NewRecorder()
	r.Clock, r.Record = clock, true

	_, ok := r.Level(4)
	require.False(t, ok)
	require.NoError(t, r.ConfigureOutput(4))
	level, ok := r.Level(4)
	require.True(t, ok)
	require.Equal(t, Low, level)

	require.NoError(t, r.Write(4, High))
	clock.Advance(time.Millisecond)
	require.NoError(t, r.Write(4, Low))
	require.Equal(t, []Write{
		{Pin: 4, Level: High, At: time.Unix(100, 0)},
		{Pin: 4, Level: Low, At: time.Unix(100, 0).Add(time.Millisecond)},
	}, r.Writes())
	require.Empty(t, r.Writes())
}

func TestRecorderWithoutHistory(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.ConfigureOutput(4))
	require.NoError(t, r.Write(4, High))
	level, _ := r.Level(4)
	require.Equal(t, High, level)
	require.Empty(t, r.Writes())
}

func TestRecorderRejectsUnconfiguredPin(t *testing.T) {
	r := NewRecorder()
	err := r.Write(5, High)
	require.True(t, errors.Is(err, ErrNotOutput))
	var pinErr *PinError
	require.True(t, errors.As(err, &pinErr))
	require.Equal(t, Pin(5), pinErr.Pin)
	require.Equal(t, "gpio write pin 5: pin not configured as output", err.Error())
}

func TestConfigNewDriver(t *testing.T) {
	conf := NewConfig()
	conf.Backend = BackendSim
	drv, closer, err := conf.NewDriver()
	require.NoError(t, err)
	require.IsType(t, &Recorder{}, drv)
	for n := 0; n < 1000; n++ {
		require.NoError(t, drv.ConfigureOutput(4))
		require.NoError(t, drv.Write(4, High))
	}
	require.Empty(t, drv.(*Recorder).Writes())
	require.NoError(t, closer.Close())

	conf.Backend = "nope"
	_, _, err = conf.NewDriver()
	require.Error(t, err)
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "high", High.String())
	require.Equal(t, "low", Low.String())
}
