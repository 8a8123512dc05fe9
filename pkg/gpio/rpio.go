package gpio

import (
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// RPIODriver drives the Raspberry Pi GPIO through /dev/gpiomem.
// Pins are BCM numbers.
type RPIODriver struct {
	lock sync.Mutex
}

// OpenRPIO maps the GPIO memory range.
func OpenRPIO() (*RPIODriver, error) {
	if err := rpio.Open(); err != nil {
		return nil, err
	}
	return &RPIODriver{}, nil
}

// ConfigureOutput implements Driver.
func (d *RPIODriver) ConfigureOutput(pin Pin) error {
	if pin < 0 || pin > 53 {
		return &PinError{Pin: pin, Op: "configure", Err: ErrInvalidPin}
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	p := rpio.Pin(pin)
	p.Output()
	p.Low()
	return nil
}

// Write implements Driver.
func (d *RPIODriver) Write(pin Pin, level Level) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if level == High {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}
	return nil
}

// Close unmaps the GPIO memory range.
func (d *RPIODriver) Close() error {
	return rpio.Close()
}
