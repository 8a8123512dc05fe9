package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/solenoid.go/pkg/l1"
	"github.com/robotalks/solenoid.go/pkg/l1/msgs"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Event is an event received from a controller.
type Event struct {
	Ref      l1.ControllerRef
	Sequence uint32
	Msg      msgs.Message
}

// Monitor discovers controllers and watches their events.
type Monitor struct {
	Queue           *Queue
	DiscoverTimeout time.Duration
}

// NewMonitor creates a Monitor.
func NewMonitor(brokerURL string) (*Monitor, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Monitor{Queue: q, DiscoverTimeout: DefaultDiscoverTimeout}, nil
}

// Connect connects to the broker.
func (m *Monitor) Connect() error {
	return m.Queue.ConnectAndWait()
}

// Close implements io.Closer.
func (m *Monitor) Close() error {
	return m.Queue.Close()
}

// Discover collects announced controllers until the timeout.
func (m *Monitor) Discover(ctx context.Context) (res []l1.ControllerInfo, err error) {
	resCh := make(chan l1.ControllerInfo, 1)
	sub := m.Queue.SubChannel(l1.ControllerRef{}, l1.ChannelMeta, func(ref l1.ControllerRef, payload []byte) {
		if len(payload) == 0 {
			return
		}
		info := l1.ControllerInfo{Ref: ref}
		if err := json.Unmarshal(payload, &info.Meta); err != nil {
			glog.Warningf("invalid meta of %s: %v", ref.Name(), err)
		}
		select {
		case resCh <- info:
		case <-time.After(time.Second):
		}
	})
	defer sub.Close()

	dur := m.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-timeout:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// Watch calls fn for every event published by controllers of ref.
// Empty fields of ref match all controllers.
func (m *Monitor) Watch(ctx context.Context, ref l1.ControllerRef, fn func(Event)) error {
	sub := m.Queue.SubChannel(ref, l1.ChannelMsg, func(from l1.ControllerRef, payload []byte) {
		if ev, err := DecodeEvent(from, payload); err != nil {
			glog.Warningf("invalid event from %s: %v", from.Name(), err)
		} else {
			fn(ev)
		}
	})
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

// DecodeEvent decodes an event published by a controller.
func DecodeEvent(from l1.ControllerRef, payload []byte) (ev Event, err error) {
	ev.Ref = from
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		return
	}
	ev.Sequence = typed.Sequence
	ev.Msg, err = typed.Decode()
	return
}
