package mqtt

import (
	"github.com/robotalks/solenoid.go/pkg/l1"
)

// Publisher is an io.Writer publishing every Write as one message
// to the command channel of a controller.
type Publisher struct {
	Queue *Queue
	Ref   l1.ControllerRef
}

// NewPublisher connects to the broker and creates a Publisher for ref.
func NewPublisher(brokerURL string, ref l1.ControllerRef) (*Publisher, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if err := q.ConnectAndWait(); err != nil {
		return nil, err
	}
	return &Publisher{Queue: q, Ref: ref}, nil
}

// Write implements io.Writer.
func (p *Publisher) Write(data []byte) (int, error) {
	payload := append([]byte(nil), data...)
	if err := WaitToken(p.Queue.Command(p.Ref, payload)); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Close implements io.Closer.
func (p *Publisher) Close() error {
	return p.Queue.Close()
}
