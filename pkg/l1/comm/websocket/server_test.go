package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

type commandRecorder struct {
	lock sync.Mutex
	cmds []comm.Command
}

func (r *commandRecorder) HandleCommand(_ context.Context, cmd comm.Command) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.cmds = append(r.cmds, cmd)
}

func (r *commandRecorder) commands() []comm.Command {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]comm.Command(nil), r.cmds...)
}

func TestServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	defer cancel()
	rec := &commandRecorder{}
	s := &Server{Handler: rec}
	hs := httptest.NewServer(s.Handler(ctx))
	defer hs.Close()

	w, err := Dial("ws" + strings.TrimPrefix(hs.URL, "http"))
	require.NoError(t, err)
	defer w.Close()

	// the second frame is split across messages.
	_, err = w.Write([]byte{0xAA, 0x55, 0x0A, 0x0B, 0xAA, 0x55})
	require.NoError(t, err)
	_, err = w.Write([]byte{0x12, 0x0A})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(rec.commands()) == 2
	}, 5*time.Second, 5*time.Millisecond)
	require.Equal(t, []comm.Command{
		{Device: 0, Action: comm.ActionExtend},
		{Device: 8, Action: comm.ActionRetract},
	}, rec.commands())
}

func TestServerPeersAreIsolated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	defer cancel()
	rec := &commandRecorder{}
	s := &Server{Handler: rec}
	hs := httptest.NewServer(s.Handler(ctx))
	defer hs.Close()
	url := "ws" + strings.TrimPrefix(hs.URL, "http")

	w1, err := Dial(url)
	require.NoError(t, err)
	defer w1.Close()
	w2, err := Dial(url)
	require.NoError(t, err)
	defer w2.Close()

	_, err = w1.Write([]byte{0xAA, 0x55})
	require.NoError(t, err)
	_, err = w2.Write([]byte{0x0B, 0x0B})
	require.NoError(t, err)
	_, err = w2.Write([]byte{0xAA, 0x55, 0x0C, 0x0B})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(rec.commands()) == 1
	}, 5*time.Second, 5*time.Millisecond)
	require.Equal(t, []comm.Command{{Device: 2, Action: comm.ActionExtend}}, rec.commands())
}
