// Package daemon assembles a solenoid controller from configuration:
// GPIO backend, actuator, command sources and reporting.
package daemon

import (
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/solenoid.go/pkg/actuator"
	fx "github.com/robotalks/solenoid.go/pkg/framework"
	"github.com/robotalks/solenoid.go/pkg/gpio"
	"github.com/robotalks/solenoid.go/pkg/joystick"
	"github.com/robotalks/solenoid.go/pkg/l0/comm"
	"github.com/robotalks/solenoid.go/pkg/l1"
	"github.com/robotalks/solenoid.go/pkg/l1/comm/serial"
	"github.com/robotalks/solenoid.go/pkg/l1/comm/websocket"
	"github.com/robotalks/solenoid.go/pkg/l1/env/controller"
	"github.com/robotalks/solenoid.go/pkg/metrics"
)

// Config is the daemon configuration. Sub-configs default to the
// package defaults, which are bound to command line flags.
type Config struct {
	WebsocketAddr string
	MetricsAddr   string

	GPIO     *gpio.Config
	Actuator *actuator.Config
	Serial   *serial.Config
	Env      *controller.Config
	Joystick *joystick.Config
}

var defaultConfig Config

// SetupFlags sets command line flags of the daemon and all sub-configs.
func SetupFlags() {
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Accept frames over websocket on this address, e.g. :8080.")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics", defaultConfig.MetricsAddr, "Serve Prometheus metrics on this address, e.g. :9100.")
	gpio.SetupFlags()
	actuator.SetupFlags()
	serial.SetupFlags()
	controller.SetupFlags()
	joystick.SetupFlags()
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	conf.GPIO = gpio.NewConfig()
	conf.Actuator = actuator.NewConfig()
	conf.Serial = serial.NewConfig()
	conf.Env = controller.NewConfig()
	conf.Joystick = joystick.NewConfig()
	return &conf
}

// Daemon is an assembled controller.
type Daemon struct {
	Driver     gpio.Driver
	Controller *actuator.Controller
	Env        *controller.Env
	Metrics    *metrics.Metrics
	// Handler receives commands from all sources.
	Handler  comm.CommandHandler
	Observer comm.Observers

	runnables []fx.Runnable
	sources   int
	closers   []io.Closer
}

// NewDaemon creates the Daemon, initializing all pins.
func (c *Config) NewDaemon() (*Daemon, error) {
	d := &Daemon{}
	if err := c.setup(d); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (c *Config) setup(d *Daemon) error {
	driver, closer, err := c.GPIO.NewDriver()
	if err != nil {
		return err
	}
	d.Driver = driver
	d.closers = append(d.closers, closer)

	if d.Controller, err = c.Actuator.NewController(driver); err != nil {
		return err
	}
	c.Env.Info.Meta.Devices = d.Controller.DeviceCount()
	c.Env.Info.Meta.Pins = make([]int, 0, d.Controller.DeviceCount()*2)
	for _, pin := range d.Controller.Map.Pins() {
		c.Env.Info.Meta.Pins = append(c.Env.Info.Meta.Pins, int(pin))
	}
	if d.Env, err = c.Env.NewEnv(); err != nil {
		return err
	}

	var actObservers actuator.ActuationObservers
	if c.MetricsAddr != "" {
		reg := metrics.NewRegistry()
		d.Metrics = metrics.New(reg)
		d.Observer = append(d.Observer, d.Metrics)
		actObservers = append(actObservers, d.Metrics)
		d.runnables = append(d.runnables, fx.NamedRun("metrics", &metrics.Server{Addr: c.MetricsAddr, Registry: reg}))
	}
	if r := d.Env.Reporter; r != nil {
		d.Observer = append(d.Observer, r)
		actObservers = append(actObservers, r)
		d.runnables = append(d.runnables, fx.NamedRun("mqtt", r))
	}
	if len(actObservers) > 0 {
		d.Controller.Observer = actObservers
	}

	if err = d.Controller.Init(); err != nil {
		return fmt.Errorf("init pins: %w", err)
	}

	d.Handler = d.Controller
	if c.Actuator.Async {
		dispatcher := actuator.NewDispatcher(d.Controller)
		d.Handler = dispatcher
		d.runnables = append(d.runnables, fx.NamedRun("dispatcher", dispatcher))
	}

	if c.Serial.Port != "" {
		transport, err := c.Serial.NewTransport()
		if err != nil {
			return err
		}
		d.closers = append(d.closers, transport)
		d.AddTransport("serial", transport)
	}
	if t := d.Env.Transport; t != nil {
		d.runnables = append(d.runnables, fx.NamedRun("mqtt-cmd", t))
		d.AddTransport("mqtt", t)
	}
	if c.WebsocketAddr != "" {
		d.sources++
		d.runnables = append(d.runnables, fx.NamedRun("websocket", &websocket.Server{
			Addr:        c.WebsocketAddr,
			DeviceCount: d.Controller.DeviceCount(),
			Handler:     d.Handler,
			Observer:    d.observer(),
		}))
	}
	if panel := c.Joystick.NewPanel(d.Controller.DeviceCount(), d.Handler); panel != nil {
		d.sources++
		d.runnables = append(d.runnables, fx.NamedRun("joystick", panel))
	}
	return nil
}

// MustNewDaemon creates the Daemon and fails on error.
func (c *Config) MustNewDaemon() *Daemon {
	d, err := c.NewDaemon()
	if err != nil {
		log.Fatalln(err)
	}
	return d
}

// AddTransport adds a command source read by its own Receiver.
func (d *Daemon) AddTransport(name string, t comm.Transport) *comm.Receiver {
	receiver := comm.NewReceiver(t, d.Controller.DeviceCount())
	receiver.Name, receiver.Handler, receiver.Observer = name, d.Handler, d.observer()
	d.runnables = append(d.runnables, fx.NamedRun(name, receiver))
	d.sources++
	return receiver
}

func (d *Daemon) observer() comm.Observer {
	if len(d.Observer) == 0 {
		return nil
	}
	return d.Observer
}

// Runnables returns everything to run.
func (d *Daemon) Runnables() []fx.Runnable {
	return d.runnables
}

// Banner logs the wire format and the configuration.
func (d *Daemon) Banner(info l1.ControllerInfo) {
	glog.Infof("solenoid controller %s ready, %d devices", info.Ref.Name(), d.Controller.DeviceCount())
	glog.Infof("frame: [0x%02X][0x%02X][device+0x%02X][action+0x%02X], action 0=retract 1=extend",
		comm.Header1, comm.Header2, comm.PayloadBias, comm.PayloadBias)
	glog.Infof("pulse: settle %s, pulse %s", d.Controller.Timing.Settle, d.Controller.Timing.Pulse)
	if glog.V(2) {
		for dev := 0; dev < d.Controller.DeviceCount(); dev++ {
			pair, _ := d.Controller.Map.Pair(dev)
			glog.Infof("device %d: A=GPIO%d B=GPIO%d", dev, pair.A, pair.B)
		}
	}
}

// Run runs the daemon until ctx is done or a source fails.
func (d *Daemon) Run(r *fx.Runner) error {
	if d.sources == 0 {
		return fmt.Errorf("no command source, specify -port, -ws, -mqtt-cmd or -joystick")
	}
	d.Banner(d.Env.Config.Info)
	return r.Go(d.runnables...).Wait()
}

// Close releases the GPIO backend and open ports.
func (d *Daemon) Close() error {
	var errs fx.AggregatedError
	for n := len(d.closers) - 1; n >= 0; n-- {
		errs.Add(d.closers[n].Close())
	}
	d.closers = nil
	return errs.Aggregate()
}
