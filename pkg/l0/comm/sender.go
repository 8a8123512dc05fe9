package comm

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/solenoid.go/pkg/framework"
)

// Sender encodes commands onto a byte stream. It's the host side of
// the protocol and expects no reply.
type Sender struct {
	Writer      io.Writer
	DeviceCount int
	Clock       fx.Clock

	lock sync.Mutex
}

// NewSender creates a Sender for DefaultDeviceCount devices.
func NewSender(w io.Writer) *Sender {
	return &Sender{Writer: w, DeviceCount: DefaultDeviceCount, Clock: fx.SystemClock{}}
}

// Send validates and writes one frame.
func (s *Sender) Send(cmd Command) error {
	if err := cmd.Validate(s.deviceCount()); err != nil {
		return err
	}
	frame := cmd.Frame()
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, err := frame.WriteTo(s.Writer); err != nil {
		return err
	}
	if glog.V(2) {
		glog.Infof("sent %s: %s", cmd, frame)
	}
	return nil
}

// Retract sends a retract command.
func (s *Sender) Retract(device int) error {
	return s.Send(Command{Device: device, Action: ActionRetract})
}

// Extend sends an extend command.
func (s *Sender) Extend(device int) error {
	return s.Send(Command{Device: device, Action: ActionExtend})
}

// Do sends a command with the action given by name, see ParseAction.
func (s *Sender) Do(device int, action string) error {
	a, err := ParseAction(action)
	if err != nil {
		return err
	}
	return s.Send(Command{Device: device, Action: a})
}

// Sweep extends then retracts every device in order, pausing delay
// after each command.
func (s *Sender) Sweep(ctx context.Context, delay time.Duration) error {
	for dev := 0; dev < s.deviceCount(); dev++ {
		for _, a := range []Action{ActionExtend, ActionRetract} {
			if err := s.sendAndWait(ctx, Command{Device: dev, Action: a}, delay); err != nil {
				return err
			}
		}
	}
	return nil
}

// Wave extends all devices in order, waits pause, then retracts all in order.
func (s *Sender) Wave(ctx context.Context, step, pause time.Duration) error {
	for _, a := range []Action{ActionExtend, ActionRetract} {
		for dev := 0; dev < s.deviceCount(); dev++ {
			if err := s.sendAndWait(ctx, Command{Device: dev, Action: a}, step); err != nil {
				return err
			}
		}
		if a == ActionExtend {
			s.clock().Sleep(pause)
		}
	}
	return nil
}

func (s *Sender) sendAndWait(ctx context.Context, cmd Command, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Send(cmd); err != nil {
		return err
	}
	s.clock().Sleep(delay)
	return nil
}

func (s *Sender) deviceCount() int {
	if s.DeviceCount == 0 {
		return DefaultDeviceCount
	}
	return s.DeviceCount
}

func (s *Sender) clock() fx.Clock {
	if s.Clock == nil {
		return fx.SystemClock{}
	}
	return s.Clock
}
