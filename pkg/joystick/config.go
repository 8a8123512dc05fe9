package joystick

import (
	"flag"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

// Config defines the configurations for the panel.
type Config struct {
	Enabled     bool
	DeviceIndex int
}

var defaultConfig = Config{
	DeviceIndex: -1,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&defaultConfig.Enabled, "joystick", defaultConfig.Enabled, "Toggle devices with joystick buttons.")
	flag.IntVar(&defaultConfig.DeviceIndex, "joystick-index", defaultConfig.DeviceIndex, "Joystick index, -1 for auto detection.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewPanel creates a Panel using the config, nil when disabled.
func (c *Config) NewPanel(deviceCount int, handler comm.CommandHandler) *Panel {
	if !c.Enabled {
		return nil
	}
	return NewPanel(c.DeviceIndex, deviceCount, handler)
}
