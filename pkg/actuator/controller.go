package actuator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/solenoid.go/pkg/framework"
	"github.com/robotalks/solenoid.go/pkg/gpio"
	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

// Default pulse timing.
const (
	DefaultSettle = 10 * time.Millisecond
	DefaultPulse  = 15 * time.Millisecond
)

// Timing defines the shape of a pulse.
type Timing struct {
	// Settle is how long both pins are held low before energizing.
	Settle time.Duration
	// Pulse is how long the energized pin is held high.
	Pulse time.Duration
}

// DefaultTiming is the timing of the reference solenoids.
var DefaultTiming = Timing{Settle: DefaultSettle, Pulse: DefaultPulse}

// ActuationObserver is notified after each actuation attempt.
// err is nil on success.
type ActuationObserver interface {
	Actuated(cmd comm.Command, elapsed time.Duration, err error)
}

// ActuationObservers fans out notifications to multiple ActuationObservers.
type ActuationObservers []ActuationObserver

// Actuated implements ActuationObserver.
func (o ActuationObservers) Actuated(cmd comm.Command, elapsed time.Duration, err error) {
	for _, ob := range o {
		ob.Actuated(cmd, elapsed, err)
	}
}

// Controller pulses solenoids through a gpio.Driver.
// Actuate blocks for the whole pulse, and pulses on the same device
// never interleave. Different devices may be pulsed concurrently.
// A nil Clock means the system clock.
type Controller struct {
	Driver   gpio.Driver
	Map      *Map
	Timing   Timing
	Clock    fx.Clock
	Observer ActuationObserver

	locksLock sync.Mutex
	locks     map[int]*sync.Mutex
}

// NewController creates a Controller with default timing.
func NewController(driver gpio.Driver, m *Map) *Controller {
	return &Controller{
		Driver: driver,
		Map:    m,
		Timing: DefaultTiming,
		Clock:  fx.SystemClock{},
	}
}

// DeviceCount returns the number of devices.
func (c *Controller) DeviceCount() int {
	return c.Map.Len()
}

// Init configures all pins as outputs and drives them low.
func (c *Controller) Init() error {
	for _, pin := range c.Map.Pins() {
		if err := c.Driver.ConfigureOutput(pin); err != nil {
			return err
		}
		if err := c.Driver.Write(pin, gpio.Low); err != nil {
			return err
		}
	}
	glog.V(1).Infof("initialized %d devices on pins %v", c.Map.Len(), c.Map.Pins())
	return nil
}

// Actuate pulses one device. It validates the command before touching
// any pin.
func (c *Controller) Actuate(device int, action comm.Action) error {
	cmd := comm.Command{Device: device, Action: action}
	pair, ok := c.Map.Pair(device)
	if !ok {
		return fmt.Errorf("%w: %d", comm.ErrInvalidDevice, device)
	}
	if !action.IsValid() {
		return fmt.Errorf("%w: %d", comm.ErrInvalidAction, int(action))
	}

	lock := c.deviceLock(device)
	lock.Lock()
	defer lock.Unlock()

	clock := c.clock()
	start := clock.Time()
	err := c.pulse(pair, action, clock)
	elapsed := clock.Time().Sub(start)
	if err != nil {
		// leave the solenoid unpowered whatever failed.
		c.Driver.Write(pair.A, gpio.Low)
		c.Driver.Write(pair.B, gpio.Low)
	}
	if glog.V(2) {
		glog.Infof("actuate %s on pins %d/%d in %s: %v", cmd, pair.A, pair.B, elapsed, err)
	}
	if c.Observer != nil {
		c.Observer.Actuated(cmd, elapsed, err)
	}
	return err
}

func (c *Controller) pulse(pair PinPair, action comm.Action, clock fx.Clock) error {
	if err := c.writeBoth(pair, gpio.Low, gpio.Low); err != nil {
		return err
	}
	clock.Sleep(c.Timing.Settle)
	// only one side is ever high.
	switch action {
	case comm.ActionRetract:
		if err := c.writeBoth(pair, gpio.Low, gpio.High); err != nil {
			return err
		}
	case comm.ActionExtend:
		if err := c.writeBoth(pair, gpio.High, gpio.Low); err != nil {
			return err
		}
	}
	clock.Sleep(c.Timing.Pulse)
	return c.writeBoth(pair, gpio.Low, gpio.Low)
}

// writeBoth writes the low pin first so the pair never passes
// through high/high.
func (c *Controller) writeBoth(pair PinPair, a, b gpio.Level) error {
	if a == gpio.High {
		if err := c.Driver.Write(pair.B, b); err != nil {
			return err
		}
		return c.Driver.Write(pair.A, a)
	}
	if err := c.Driver.Write(pair.A, a); err != nil {
		return err
	}
	return c.Driver.Write(pair.B, b)
}

// HandleCommand implements comm.CommandHandler. Failures are logged
// and nothing is reported back to the sender.
func (c *Controller) HandleCommand(ctx context.Context, cmd comm.Command) {
	if err := c.Actuate(cmd.Device, cmd.Action); err != nil {
		glog.Errorf("actuate %s failed: %v", cmd, err)
	}
}

func (c *Controller) deviceLock(device int) *sync.Mutex {
	c.locksLock.Lock()
	defer c.locksLock.Unlock()
	if c.locks == nil {
		c.locks = make(map[int]*sync.Mutex)
	}
	lock := c.locks[device]
	if lock == nil {
		lock = &sync.Mutex{}
		c.locks[device] = lock
	}
	return lock
}

func (c *Controller) clock() fx.Clock {
	if c.Clock == nil {
		return fx.SystemClock{}
	}
	return c.Clock
}
