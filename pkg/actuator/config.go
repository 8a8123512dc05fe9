package actuator

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robotalks/solenoid.go/pkg/gpio"
)

// Config is the actuator configuration.
type Config struct {
	Pins   string
	Settle time.Duration
	Pulse  time.Duration
	Async  bool
}

var defaultConfig = Config{
	Pins:   FormatPins(DefaultPins),
	Settle: DefaultSettle,
	Pulse:  DefaultPulse,
}

func init() {
	if val := os.Getenv("SOLENOID_PINS"); val != "" {
		defaultConfig.Pins = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Pins, "pins", defaultConfig.Pins, "Comma separated output pins, two per device.")
	flag.DurationVar(&defaultConfig.Settle, "settle", defaultConfig.Settle, "Time both pins are low before a pulse.")
	flag.DurationVar(&defaultConfig.Pulse, "pulse", defaultConfig.Pulse, "Pulse duration.")
	flag.BoolVar(&defaultConfig.Async, "async", defaultConfig.Async, "Pulse in per-device workers instead of the receiving loop.")
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

// FormatPins formats a pin list as accepted by ParsePins.
func FormatPins(pins []gpio.Pin) string {
	strs := make([]string, len(pins))
	for n, pin := range pins {
		strs[n] = strconv.Itoa(int(pin))
	}
	return strings.Join(strs, ",")
}

// ParsePins parses a comma separated pin list.
func ParsePins(str string) ([]gpio.Pin, error) {
	var pins []gpio.Pin
	for _, s := range strings.Split(str, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", gpio.ErrInvalidPin, s)
		}
		pins = append(pins, gpio.Pin(n))
	}
	return pins, nil
}

// NewMap creates the pin Map.
func (c *Config) NewMap() (*Map, error) {
	pins, err := ParsePins(c.Pins)
	if err != nil {
		return nil, err
	}
	if len(pins) == 0 {
		return nil, fmt.Errorf("no pins configured")
	}
	return NewMap(pins...)
}

// NewController creates a Controller on the driver.
func (c *Config) NewController(driver gpio.Driver) (*Controller, error) {
	m, err := c.NewMap()
	if err != nil {
		return nil, err
	}
	ctl := NewController(driver, m)
	ctl.Timing = Timing{Settle: c.Settle, Pulse: c.Pulse}
	return ctl, nil
}
