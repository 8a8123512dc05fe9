package actuator

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

// DefaultQueueSize is the per-device backlog of a Dispatcher.
const DefaultQueueSize = 16

// ErrQueueFull indicates a command dropped because the device backlog is full.
var ErrQueueFull = errors.New("device queue full")

// Dispatcher hands commands to one worker per device, so receiving
// continues while a pulse is in progress. Commands for the same
// device are executed in arrival order.
type Dispatcher struct {
	Controller *Controller
	QueueSize  int

	queues []chan comm.Command
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(c *Controller) *Dispatcher {
	return &Dispatcher{Controller: c, QueueSize: DefaultQueueSize}
}

func (d *Dispatcher) setup() {
	d.once.Do(func() {
		size := d.QueueSize
		if size <= 0 {
			size = DefaultQueueSize
		}
		d.queues = make([]chan comm.Command, d.Controller.DeviceCount())
		for n := range d.queues {
			d.queues[n] = make(chan comm.Command, size)
		}
	})
}

// Dispatch queues a command without blocking.
func (d *Dispatcher) Dispatch(cmd comm.Command) error {
	d.setup()
	if err := cmd.Validate(len(d.queues)); err != nil {
		return err
	}
	select {
	case d.queues[cmd.Device] <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// HandleCommand implements comm.CommandHandler.
func (d *Dispatcher) HandleCommand(ctx context.Context, cmd comm.Command) {
	if err := d.Dispatch(cmd); err != nil {
		glog.Errorf("dispatch %s failed: %v", cmd, err)
	}
}

// Run implements Runnable. It starts the workers and waits until the
// context is done and every queued command has been executed.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.setup()
	for _, q := range d.queues {
		d.wg.Add(1)
		go d.worker(ctx, q)
	}
	<-ctx.Done()
	d.wg.Wait()
	return ctx.Err()
}

func (d *Dispatcher) worker(ctx context.Context, q <-chan comm.Command) {
	defer d.wg.Done()
	for {
		select {
		case cmd := <-q:
			d.Controller.HandleCommand(ctx, cmd)
		case <-ctx.Done():
			for {
				select {
				case cmd := <-q:
					d.Controller.HandleCommand(ctx, cmd)
				default:
					return
				}
			}
		}
	}
}
