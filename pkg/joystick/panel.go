// Package joystick turns a joystick into a local control panel:
// pressing button N toggles device N between extended and retracted.
package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/solenoid.go/pkg/joystick/device"
	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

// ReopenInterval is the delay before detecting a joystick again.
const ReopenInterval = time.Second

// OpenFunc opens a joystick.
type OpenFunc func() (device.Device, error)

// Panel issues commands from joystick buttons. The first command for
// a device extends it.
type Panel struct {
	Open        OpenFunc
	DeviceCount int
	Handler     comm.CommandHandler

	extended []bool
}

// NewPanel creates a Panel opening the joystick at index, or the first
// one detected when index is negative.
func NewPanel(index, deviceCount int, handler comm.CommandHandler) *Panel {
	return &Panel{
		Open:        OpenIndex(index),
		DeviceCount: deviceCount,
		Handler:     handler,
	}
}

// OpenIndex returns an OpenFunc for a device index, -1 for auto detection.
func OpenIndex(index int) OpenFunc {
	return func() (device.Device, error) {
		if index >= 0 {
			return device.Open(index)
		}
		return device.DetectAndOpen(0)
	}
}

// Run implements Runnable. The joystick is reopened when it's
// unplugged.
func (p *Panel) Run(ctx context.Context) error {
	var (
		js      device.Device
		eventCh chan device.Event
		timer   = time.After(0)
	)
	defer func() {
		if js != nil {
			js.Close()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer:
			timer = nil
			dev, err := p.Open()
			switch {
			case err != nil:
				glog.V(1).Infof("open joystick: %v", err)
			case dev == nil:
				glog.V(1).Info("no joystick detected")
			default:
				glog.Infof("joystick %d %q opened, %d buttons", dev.Index(), dev.Name(), dev.ButtonCount())
				if n := dev.ButtonCount(); n < p.deviceCount() {
					glog.Warningf("joystick has %d buttons, devices from %d are not reachable", n, n)
				}
				js, eventCh = dev, make(chan device.Event, 1)
				go poll(ctx, js, eventCh)
			}
			if js == nil {
				timer = time.After(ReopenInterval)
			}
		case ev, ok := <-eventCh:
			if ok {
				p.HandleEvent(ctx, ev)
				continue
			}
			glog.Warning("joystick disconnected")
			js.Close()
			js, eventCh = nil, nil
			timer = time.After(ReopenInterval)
		}
	}
}

// HandleEvent turns a button press into a command.
func (p *Panel) HandleEvent(ctx context.Context, ev device.Event) {
	if !ev.Pressed() {
		return
	}
	dev := ev.Number
	if dev >= p.deviceCount() {
		return
	}
	if p.extended == nil {
		p.extended = make([]bool, p.deviceCount())
	}
	action := comm.ActionExtend
	if p.extended[dev] {
		action = comm.ActionRetract
	}
	p.extended[dev] = !p.extended[dev]
	glog.V(2).Infof("button %d: %s", dev, action)
	p.Handler.HandleCommand(ctx, comm.Command{Device: dev, Action: action})
}

func (p *Panel) deviceCount() int {
	if p.DeviceCount == 0 {
		return comm.DefaultDeviceCount
	}
	return p.DeviceCount
}

func poll(ctx context.Context, js device.Device, eventCh chan<- device.Event) {
	defer close(eventCh)
	for {
		ev, err := js.ReadEvent()
		if err != nil {
			glog.V(1).Infof("read joystick: %v", err)
			return
		}
		select {
		case eventCh <- ev:
		case <-ctx.Done():
			return
		}
	}
}
