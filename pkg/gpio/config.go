package gpio

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// Backends.
const (
	BackendSim  = "sim"
	BackendRPIO = "rpio"
)

// Config selects the GPIO backend.
type Config struct {
	Backend string
	Verbose bool
}

var defaultConfig = Config{
	Backend: BackendSim,
}

func init() {
	if val := os.Getenv("SOLENOID_GPIO"); val != "" {
		defaultConfig.Backend = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Backend, "gpio", defaultConfig.Backend, "GPIO backend: sim or rpio.")
	flag.BoolVar(&defaultConfig.Verbose, "gpio-verbose", defaultConfig.Verbose, "Log every pin write (sim backend).")
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewDriver opens the configured backend. The returned Closer
// releases it.
func (c *Config) NewDriver() (Driver, io.Closer, error) {
	switch c.Backend {
	case BackendSim, "":
		r := NewRecorder()
		r.Verbose = c.Verbose
		return r, nopCloser{}, nil
	case BackendRPIO:
		d, err := OpenRPIO()
		if err != nil {
			return nil, nil, fmt.Errorf("open rpio: %w", err)
		}
		return d, d, nil
	}
	return nil, nil, fmt.Errorf("unknown GPIO backend %q", c.Backend)
}
