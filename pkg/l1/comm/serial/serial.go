// Package serial connects the frame protocol to a serial port.
package serial

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

// DefaultBaudRate is the line speed of the controller link.
const DefaultBaudRate = 115200

// Config is the serial port configuration.
type Config struct {
	Port     string
	BaudRate int
}

var defaultConfig = Config{
	BaudRate: DefaultBaudRate,
}

func init() {
	if val := os.Getenv("SOLENOID_PORT"); val != "" {
		defaultConfig.Port = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port, e.g. /dev/ttyUSB0.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial baud rate.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Mode returns the port mode: 8 data bits, no parity, one stop bit.
func (c *Config) Mode() *serial.Mode {
	baud := c.BaudRate
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open opens the port.
func (c *Config) Open() (serial.Port, error) {
	if c.Port == "" {
		return nil, fmt.Errorf("serial port not specified")
	}
	port, err := serial.Open(c.Port, c.Mode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Port, err)
	}
	glog.Infof("opened %s at %d baud", c.Port, c.Mode().BaudRate)
	return port, nil
}

// NewTransport opens the port as a comm.StreamTransport.
// Closing the transport closes the port.
func (c *Config) NewTransport() (*comm.StreamTransport, error) {
	port, err := c.Open()
	if err != nil {
		return nil, err
	}
	return comm.NewStreamTransport(port), nil
}

// Ports lists the serial ports on the system.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
