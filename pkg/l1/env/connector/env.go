// Package connector sets up tools talking to a solenoid controller.
package connector

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"

	"github.com/robotalks/solenoid.go/pkg/l1"
	"github.com/robotalks/solenoid.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/solenoid.go/pkg/l1/comm/serial"
	"github.com/robotalks/solenoid.go/pkg/l1/comm/websocket"
)

// Config provides common options to reach a controller.
type Config struct {
	Ref l1.ControllerRef

	// URL is where commands are sent:
	//   serial:///dev/ttyUSB0 (or just the device path)
	//   ws://host:port/path
	//   mqtt://host:port/topic-prefix
	URL string
	// Baud is the baud rate for serial URLs.
	Baud int
}

var defaultConfig = Config{
	Ref:  l1.ControllerRef{Type: l1.DefaultControllerType},
	Baud: serial.DefaultBaudRate,
}

func init() {
	if val := os.Getenv("SOLENOID_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("SOLENOID_URL"); val != "" {
		defaultConfig.URL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "type", defaultConfig.Ref.Type, "Controller type, for MQTT.")
	flag.StringVar(&defaultConfig.Ref.ID, "id", defaultConfig.Ref.ID, "Controller ID, for MQTT.")
	flag.StringVar(&defaultConfig.URL, "url", defaultConfig.URL, "Controller URL: serial device, ws:// or mqtt://.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Scheme returns the transport scheme of URL.
func (c *Config) Scheme() (string, error) {
	if c.URL == "" {
		return "", fmt.Errorf("controller URL must be specified")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("invalid controller URL: %w", err)
	}
	switch u.Scheme {
	case "", "serial":
		return "serial", nil
	case "ws", "wss", "mqtt", "tcp", "ssl":
		return u.Scheme, nil
	}
	return "", fmt.Errorf("unknown controller URL scheme: %q", u.Scheme)
}

// Dial opens the command stream to the controller.
func (c *Config) Dial() (io.WriteCloser, error) {
	scheme, err := c.Scheme()
	if err != nil {
		return nil, err
	}
	switch scheme {
	case "serial":
		u, _ := url.Parse(c.URL)
		conf := serial.NewConfig()
		conf.Port, conf.BaudRate = u.Path, c.Baud
		return conf.Open()
	case "ws", "wss":
		return websocket.Dial(c.URL)
	default:
		if !c.Ref.IsValid() {
			return nil, fmt.Errorf("controller type and id must be specified")
		}
		return mqtt.NewPublisher(c.URL, c.Ref)
	}
}

// MustDial dials the controller and fails on error.
func (c *Config) MustDial() io.WriteCloser {
	w, err := c.Dial()
	if err != nil {
		log.Fatalln(err)
	}
	return w
}

// NewMonitor creates an MQTT Monitor on URL.
func (c *Config) NewMonitor() (*mqtt.Monitor, error) {
	scheme, err := c.Scheme()
	if err != nil {
		return nil, err
	}
	if scheme == "serial" || scheme == "ws" || scheme == "wss" {
		return nil, fmt.Errorf("monitor requires an MQTT URL")
	}
	return mqtt.NewMonitor(c.URL)
}

// MustNewMonitor creates a Monitor and fails on error.
func (c *Config) MustNewMonitor() *mqtt.Monitor {
	m, err := c.NewMonitor()
	if err != nil {
		log.Fatalln(err)
	}
	return m
}
