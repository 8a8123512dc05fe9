package comm

import (
	"io"
	"sync"
)

// StreamTransport adapts an io.Reader to Transport.
// A background goroutine reads the stream into a buffered channel,
// so Available and ReadByte never block.
type StreamTransport struct {
	reader io.Reader
	byteCh chan byte
	errCh  chan error
	err    error

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// streamBufferSize is large enough to hold a second of data at 115200 baud.
const streamBufferSize = 16 * 1024

// NewStreamTransport creates a StreamTransport and starts reading.
func NewStreamTransport(r io.Reader) *StreamTransport {
	t := &StreamTransport{
		reader: r,
		byteCh:  make(chan byte, streamBufferSize),
		errCh:   make(chan error, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go t.readLoop()
	return t
}

// Available implements Transport.
func (t *StreamTransport) Available() bool {
	return t.err != nil || len(t.byteCh) > 0 || len(t.errCh) > 0
}

// ReadByte implements Transport. Once the stream fails, the error is
// returned after all bytes read before it.
func (t *StreamTransport) ReadByte() (byte, error) {
	select {
	case b := <-t.byteCh:
		return b, nil
	default:
	}
	if t.err != nil {
		return 0, t.err
	}
	select {
	case t.err = <-t.errCh:
		// bytes sent before the error may have landed meanwhile.
		select {
		case b := <-t.byteCh:
			return b, nil
		default:
		}
		return 0, t.err
	default:
		return 0, ErrNoData
	}
}

// Close stops reading and closes the underlying reader if it's an
// io.Closer. A reader that is not a Closer is abandoned after its
// current Read returns.
func (t *StreamTransport) Close() (err error) {
	t.closeOnce.Do(func() {
		close(t.done)
		if closer, ok := t.reader.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return
}

func (t *StreamTransport) readLoop() {
	defer close(t.stopped)
	buf := make([]byte, 64)
	for {
		n, err := t.reader.Read(buf)
		for _, b := range buf[:n] {
			select {
			case t.byteCh <- b:
			case <-t.done:
				return
			}
		}
		if err != nil {
			t.errCh <- err
			return
		}
		select {
		case <-t.done:
			return
		default:
		}
	}
}
