// Package metrics exposes receiver and actuator counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

// NewRegistry creates a Registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the HTTP handler serving the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Metrics are the controller counters. It implements comm.Observer
// and actuator.ActuationObserver.
type Metrics struct {
	FramesTotal     *prometheus.CounterVec   // labels: result=accepted|dropped|expired
	DropsTotal      *prometheus.CounterVec   // labels: reason
	ActuationsTotal *prometheus.CounterVec   // labels: device, action, result=ok|error
	PulseSeconds    *prometheus.HistogramVec // labels: action
}

// New registers and returns the controller metrics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solenoid_frames_total",
			Help: "Frames seen by the receiver by outcome.",
		}, []string{"result"}),
		DropsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solenoid_frame_drops_total",
			Help: "Completed frames dropped by reason.",
		}, []string{"reason"}),
		ActuationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solenoid_actuations_total",
			Help: "Actuation attempts by device, action and result.",
		}, []string{"device", "action", "result"}),
		PulseSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solenoid_pulse_seconds",
			Help:    "Wall time of a whole actuation including settle.",
			Buckets: []float64{.01, .02, .025, .03, .05, .1, .25},
		}, []string{"action"}),
	}
	reg.MustRegister(m.FramesTotal, m.DropsTotal, m.ActuationsTotal, m.PulseSeconds)
	return m
}

// FrameAccepted implements comm.Observer.
func (m *Metrics) FrameAccepted(comm.Command) {
	m.FramesTotal.WithLabelValues("accepted").Inc()
}

// FrameDropped implements comm.Observer.
func (m *Metrics) FrameDropped(_ comm.Frame, err error) {
	m.FramesTotal.WithLabelValues("dropped").Inc()
	m.DropsTotal.WithLabelValues(DropReason(err)).Inc()
}

// FrameExpired implements comm.Observer.
func (m *Metrics) FrameExpired(comm.State) {
	m.FramesTotal.WithLabelValues("expired").Inc()
}

// Actuated implements actuator.ActuationObserver.
func (m *Metrics) Actuated(cmd comm.Command, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ActuationsTotal.WithLabelValues(strconv.Itoa(cmd.Device), cmd.Action.String(), result).Inc()
	if err == nil {
		m.PulseSeconds.WithLabelValues(cmd.Action.String()).Observe(elapsed.Seconds())
	}
}

// DropReason maps a frame error to a label value.
func DropReason(err error) string {
	switch {
	case errors.Is(err, comm.ErrInvalidDevice):
		return "invalid_device"
	case errors.Is(err, comm.ErrInvalidAction):
		return "invalid_action"
	case errors.Is(err, comm.ErrBadHeader):
		return "bad_header"
	}
	return "other"
}

// Server serves the metrics endpoint. It implements Runnable.
type Server struct {
	Addr     string
	Registry *prometheus.Registry
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(s.Registry))
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("metrics listening on %s", s.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}
