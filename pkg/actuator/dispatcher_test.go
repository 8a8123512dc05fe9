package actuator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/solenoid.go/pkg/framework"
	"github.com/robotalks/solenoid.go/pkg/gpio"
	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

type chanObserver chan comm.Command

func (o chanObserver) Actuated(cmd comm.Command, _ time.Duration, err error) {
	o <- cmd
}

func TestDispatcher(t *testing.T) {
	ctl := NewController(gpio.NewRecorder(), DefaultMap())
	ctl.Clock = fx.NewManualClock(time.Unix(0, 0))
	require.NoError(t, ctl.Init())
	done := make(chanObserver, 16)
	ctl.Observer = done

	d := NewDispatcher(ctl)
	ctx, cancel := context.WithCancel(context.TODO())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	cmds := []comm.Command{
		{Device: 3, Action: comm.ActionExtend},
		{Device: 3, Action: comm.ActionRetract},
		{Device: 3, Action: comm.ActionExtend},
	}
	for _, cmd := range cmds {
		d.HandleCommand(ctx, cmd)
	}
	var got []comm.Command
	for range cmds {
		select {
		case cmd := <-done:
			got = append(got, cmd)
		case <-time.After(5 * time.Second):
			t.Fatal("command not executed")
		}
	}
	require.Equal(t, cmds, got)

	require.ErrorIs(t, d.Dispatch(comm.Command{Device: 9}), comm.ErrInvalidDevice)
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestDispatcherQueueFull(t *testing.T) {
	ctl := NewController(gpio.NewRecorder(), DefaultMap())
	d := NewDispatcher(ctl)
	d.QueueSize = 2
	cmd := comm.Command{Device: 0, Action: comm.ActionExtend}
	require.NoError(t, d.Dispatch(cmd))
	require.NoError(t, d.Dispatch(cmd))
	require.Equal(t, ErrQueueFull, d.Dispatch(cmd))
	require.NoError(t, d.Dispatch(comm.Command{Device: 1}))
}
