package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

func TestMetricsObserver(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.FrameAccepted(comm.Command{})
	m.FrameAccepted(comm.Command{})
	_, err := comm.Frame{0xAA, 0x55, 0x13, 0x0A}.Decode(comm.DefaultDeviceCount)
	m.FrameDropped(comm.Frame{}, err)
	m.FrameExpired(comm.StateHeader1Seen)

	require.Equal(t, 2.0, testutil.ToFloat64(m.FramesTotal.WithLabelValues("accepted")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.FramesTotal.WithLabelValues("dropped")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.FramesTotal.WithLabelValues("expired")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.DropsTotal.WithLabelValues("invalid_device")))
}

func TestMetricsActuated(t *testing.T) {
	m := New(prometheus.NewRegistry())
	cmd := comm.Command{Device: 4, Action: comm.ActionExtend}
	m.Actuated(cmd, 25*time.Millisecond, nil)
	m.Actuated(cmd, time.Millisecond, errors.New("stuck"))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ActuationsTotal.WithLabelValues("4", "extend", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ActuationsTotal.WithLabelValues("4", "extend", "error")))
}

func TestDropReason(t *testing.T) {
	require.Equal(t, "invalid_action", DropReason(&comm.PayloadError{Err: comm.ErrInvalidAction}))
	require.Equal(t, "bad_header", DropReason(comm.ErrBadHeader))
	require.Equal(t, "other", DropReason(errors.New("x")))
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.FrameAccepted(comm.Command{})
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `solenoid_frames_total{result="accepted"} 1`))
}
