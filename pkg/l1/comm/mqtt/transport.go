package mqtt

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
	"github.com/robotalks/solenoid.go/pkg/l1"
)

// transportBufferSize is the number of bytes buffered from the topic.
const transportBufferSize = 4096

// Transport implements comm.Transport with payloads published to the
// command channel of a controller. Payloads are concatenated into one
// byte stream, so a frame may span messages.
type Transport struct {
	Queue *Queue
	Ref   l1.ControllerRef

	byteCh chan byte
	closed bool
	lock   sync.Mutex
}

// NewTransport creates a Transport reading the commands of ref.
func NewTransport(q *Queue, ref l1.ControllerRef) *Transport {
	return &Transport{Queue: q, Ref: ref, byteCh: make(chan byte, transportBufferSize)}
}

// Available implements comm.Transport.
func (t *Transport) Available() bool {
	if len(t.byteCh) > 0 {
		return true
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.closed
}

// ReadByte implements comm.Transport. It returns io.EOF after Run stopped
// and all bytes are consumed.
func (t *Transport) ReadByte() (byte, error) {
	select {
	case b := <-t.byteCh:
		return b, nil
	default:
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.closed {
		return 0, io.EOF
	}
	return 0, comm.ErrNoData
}

// Run implements Runnable. It subscribes the channel until ctx is done.
func (t *Transport) Run(ctx context.Context) error {
	sub := t.Queue.SubChannel(t.Ref, l1.ChannelCmd, func(_ l1.ControllerRef, payload []byte) {
		t.handleMsg(payload)
	})
	defer func() {
		sub.Close()
		t.lock.Lock()
		t.closed = true
		t.lock.Unlock()
	}()
	<-ctx.Done()
	return ctx.Err()
}

// Inject appends bytes to the stream as if they were published.
func (t *Transport) Inject(payload []byte) {
	t.handleMsg(payload)
}

func (t *Transport) handleMsg(payload []byte) {
	for n, b := range payload {
		select {
		case t.byteCh <- b:
		default:
			glog.Warningf("commands of %s overflow, %d bytes lost", t.Ref.Name(), len(payload)-n)
			return
		}
	}
}
