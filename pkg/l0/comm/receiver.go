package comm

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/solenoid.go/pkg/framework"
)

// DefaultIdle is how long Run pauses when no byte is available.
const DefaultIdle = time.Millisecond

// Transport is the byte source polled by Receiver.
// Neither method may block indefinitely.
type Transport interface {
	// Available reports whether ReadByte has a byte (or an error) to return.
	Available() bool
	// ReadByte returns the next byte.
	ReadByte() (byte, error)
}

// CommandHandler is called when a valid command is received.
type CommandHandler interface {
	HandleCommand(context.Context, Command)
}

// HandleCommandFunc is func type of CommandHandler.
type HandleCommandFunc func(context.Context, Command)

// HandleCommand implements CommandHandler.
func (f HandleCommandFunc) HandleCommand(ctx context.Context, cmd Command) {
	f(ctx, cmd)
}

// Observer is notified about every frame outcome.
// Implementations must not block.
type Observer interface {
	FrameAccepted(Command)
	FrameDropped(Frame, error)
	FrameExpired(State)
}

// Observers fans out notifications to multiple Observers.
type Observers []Observer

// FrameAccepted implements Observer.
func (o Observers) FrameAccepted(cmd Command) {
	for _, ob := range o {
		ob.FrameAccepted(cmd)
	}
}

// FrameDropped implements Observer.
func (o Observers) FrameDropped(f Frame, err error) {
	for _, ob := range o {
		ob.FrameDropped(f, err)
	}
}

// FrameExpired implements Observer.
func (o Observers) FrameExpired(s State) {
	for _, ob := range o {
		ob.FrameExpired(s)
	}
}

// Receiver polls a Transport and forwards received commands.
type Receiver struct {
	Name      string
	Transport Transport
	Handler   CommandHandler
	Observer  Observer
	Clock     fx.Clock
	Idle      time.Duration

	parser Parser
}

// NewReceiver creates a Receiver.
func NewReceiver(t Transport, deviceCount int) *Receiver {
	return &Receiver{
		Transport: t,
		Clock:     fx.SystemClock{},
		Idle:      DefaultIdle,
		parser:    Parser{Timeout: DefaultTimeout, DeviceCount: deviceCount},
	}
}

// Parser exposes the frame parser, e.g. for changing Timeout.
func (r *Receiver) Parser() *Parser {
	return &r.parser
}

// Step runs one iteration of the receiving loop: expires a stale
// partial frame, then reads and parses at most one byte. It returns
// whether a byte was consumed. A command completed by the byte is
// handled before Step returns.
func (r *Receiver) Step(ctx context.Context) (bool, error) {
	now := r.clock().Time()
	if state := r.parser.State(); r.parser.Expire(now) {
		glog.V(2).Infof("%sframe timeout in state %s, resetting buffer", r.logPrefix(), state)
		if r.Observer != nil {
			r.Observer.FrameExpired(state)
		}
	}
	if !r.Transport.Available() {
		return false, nil
	}
	b, err := r.Transport.ReadByte()
	if err != nil {
		return false, err
	}
	pr := r.parser.Parse(b, now)
	switch {
	case pr.Err != nil:
		glog.V(2).Infof("%sdrop frame %s: %v", r.logPrefix(), pr.Frame, pr.Err)
		if r.Observer != nil {
			r.Observer.FrameDropped(*pr.Frame, pr.Err)
		}
	case pr.Command != nil:
		glog.V(2).Infof("%sreceived %s", r.logPrefix(), pr.Command)
		if r.Observer != nil {
			r.Observer.FrameAccepted(*pr.Command)
		}
		if h := r.Handler; h != nil {
			h.HandleCommand(ctx, *pr.Command)
		}
	}
	return true, nil
}

// Run implements Runnable. It stops on context cancellation or
// transport error.
func (r *Receiver) Run(ctx context.Context) error {
	idle := r.Idle
	if idle == 0 {
		idle = DefaultIdle
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		read, err := r.Step(ctx)
		if err != nil {
			return err
		}
		if !read {
			r.clock().Sleep(idle)
		}
	}
}

func (r *Receiver) clock() fx.Clock {
	if r.Clock == nil {
		return fx.SystemClock{}
	}
	return r.Clock
}

func (r *Receiver) logPrefix() string {
	if r.Name == "" {
		return ""
	}
	return "[" + r.Name + "] "
}
