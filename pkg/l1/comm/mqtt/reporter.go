package mqtt

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/solenoid.go/pkg/framework"
	"github.com/robotalks/solenoid.go/pkg/l0/comm"
	"github.com/robotalks/solenoid.go/pkg/l1"
	"github.com/robotalks/solenoid.go/pkg/l1/msgs"
)

// Reporter announces a controller and publishes its events.
// The retained meta topic is cleared on exit and by the broker (as the
// will) when the connection is lost.
//
// It implements comm.Observer and actuator.ActuationObserver.
type Reporter struct {
	Queue *Queue
	Info  l1.ControllerInfo
	Clock fx.TimeSource
	// Drops enables publishing FrameDropped and FrameExpired events.
	Drops bool

	metaJSON []byte
	seq      uint32
}

// NewReporter creates a Reporter.
func NewReporter(brokerURL string, info l1.ControllerInfo) (*Reporter, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	SetWill(opts, topicPrefix, info.Ref)
	if opts.ClientID == "" {
		opts.SetClientID("solenoid:" + info.Ref.Name())
	}
	r := &Reporter{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		Clock:    fx.SystemClock{},
		metaJSON: meta,
	}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	return r, nil
}

// SendEvent implements l1.EventSink.
func (r *Reporter) SendEvent(ctx context.Context, msg msgs.Message) error {
	data, err := msgs.EncodeEvent(msg, atomic.AddUint32(&r.seq, 1))
	if err != nil {
		return err
	}
	r.Queue.Emit(r.Info.Ref, data)
	return nil
}

// Run implements Runnable.
func (r *Reporter) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	WaitToken(r.Queue.Withdraw(r.Info.Ref))
	r.Queue.Close()
	return ctx.Err()
}

// Actuated implements actuator.ActuationObserver.
func (r *Reporter) Actuated(cmd comm.Command, elapsed time.Duration, err error) {
	r.send(msgs.NewActuated(cmd, elapsed, err, r.Clock.Time()))
}

// FrameAccepted implements comm.Observer. Accepted frames are reported
// by Actuated.
func (r *Reporter) FrameAccepted(comm.Command) {}

// FrameDropped implements comm.Observer.
func (r *Reporter) FrameDropped(frame comm.Frame, err error) {
	if r.Drops {
		r.send(msgs.NewFrameDropped(frame, err, r.Clock.Time()))
	}
}

// FrameExpired implements comm.Observer.
func (r *Reporter) FrameExpired(state comm.State) {
	if r.Drops {
		r.send(msgs.NewFrameExpired(state, r.Clock.Time()))
	}
}

func (r *Reporter) send(msg msgs.Message) {
	if err := r.SendEvent(context.Background(), msg); err != nil {
		glog.Errorf("publish event failed: %v", err)
	}
}

func (r *Reporter) onConnected() {
	r.Queue.Announce(r.Info.Ref, r.metaJSON)
}
