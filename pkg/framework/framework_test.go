package framework

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualClock(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewManualClock(start)
	require.Equal(t, start, c.Time())
	c.Sleep(10 * time.Millisecond)
	c.Sleep(15 * time.Millisecond)
	require.Equal(t, start.Add(25*time.Millisecond), c.Time())
	require.Equal(t, start.Add(time.Second+25*time.Millisecond), c.Advance(time.Second))
	require.Equal(t, []time.Duration{10 * time.Millisecond, 15 * time.Millisecond}, c.Sleeps())
	require.Empty(t, c.Sleeps())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	errs.Add(io.EOF)
	require.Equal(t, "EOF", errs.Aggregate().Error())
	errs.Add(context.DeadlineExceeded)
	err := errs.Aggregate()
	require.Equal(t, "Multiple errors:\nEOF\ncontext deadline exceeded", err.Error())
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRunnerStopsAllOnFirstExit(t *testing.T) {
	r := NewRunner()
	blocked := RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	failing := NamedRun("failing", RunFunc(func(context.Context) error {
		return io.EOF
	}))
	err := r.Go(blocked, blocked, failing).Wait()
	require.Equal(t, "EOF", err.Error())
	require.True(t, errors.Is(err, io.EOF))
	require.Len(t, r.Runners, 3)
	require.Equal(t, "failing", failing.(Named).Name())
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx)
	r.Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	cancel()
	require.NoError(t, r.Wait())
}

type testCloser struct {
	closed chan struct{}
}

func (c *testCloser) Close() error {
	close(c.closed)
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	closer := &testCloser{closed: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunWithContextCloser(ctx, closer, func() error {
			<-closer.closed
			return io.ErrClosedPipe
		})
	}()
	cancel()
	require.Equal(t, context.Canceled, <-errCh)

	closer = &testCloser{closed: make(chan struct{})}
	err := RunWithContextCloser(context.Background(), closer, func() error { return io.EOF })
	require.Equal(t, io.EOF, err)
	<-closer.closed
}
