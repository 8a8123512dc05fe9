// Package solenoid adds the solenoid commands to the shell.
package solenoid

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/solenoid.go/pkg/cli/sh"
	"github.com/robotalks/solenoid.go/pkg/l0/comm"
	"github.com/robotalks/solenoid.go/pkg/l1/comm/serial"
)

// Defaults of the pattern commands.
const (
	DefaultSweepDelay = 2 * time.Second
	DefaultWaveStep   = 300 * time.Millisecond
	DefaultWavePause  = time.Second
)

// ParseDevice parses a device index argument.
func ParseDevice(arg string) (int, error) {
	dev, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", comm.ErrInvalidDevice, arg)
	}
	return dev, nil
}

// ParseDuration parses an optional duration argument. A plain number
// is taken as milliseconds.
func ParseDuration(args []string, n int, def time.Duration) (time.Duration, error) {
	if len(args) <= n {
		return def, nil
	}
	if ms, err := strconv.Atoi(args[n]); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(args[n])
}

// ParseHex parses bytes like "AA 55 0A 0B" or "aa550a0b".
func ParseHex(args []string) ([]byte, error) {
	return hex.DecodeString(strings.Join(strings.Fields(strings.Join(args, " ")), ""))
}

func actionCmd(name string, aliases []string, action comm.Action) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: aliases,
		Help:    "DEVICE...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("device expected"))
				return
			}
			for _, arg := range c.Args {
				dev, err := ParseDevice(arg)
				if err != nil {
					c.Err(err)
					return
				}
				if sh.Send(c, comm.Command{Device: dev, Action: action}) != nil {
					return
				}
			}
		}),
	}
}

var (
	// ExtendCmd extends devices.
	ExtendCmd = actionCmd("out", []string{"extend", "o"}, comm.ActionExtend)
	// RetractCmd retracts devices.
	RetractCmd = actionCmd("in", []string{"retract", "i"}, comm.ActionRetract)

	// SweepCmd extends then retracts every device.
	SweepCmd = ishell.Cmd{
		Name:    "test",
		Aliases: []string{"sweep"},
		Help:    "[DELAY], extend then retract every device, default delay 2s",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			delay, err := ParseDuration(c.Args, 0, DefaultSweepDelay)
			if err != nil {
				c.Err(err)
				return
			}
			if err := sh.ShellFrom(c).Conn.Sender.Sweep(context.TODO(), delay); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// WaveCmd extends all devices in order, then retracts all.
	WaveCmd = ishell.Cmd{
		Name:    "wave",
		Aliases: []string{"w"},
		Help:    "[STEP [PAUSE]], extend all in order, pause, retract all",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			step, err := ParseDuration(c.Args, 0, DefaultWaveStep)
			if err != nil {
				c.Err(err)
				return
			}
			pause, err := ParseDuration(c.Args, 1, DefaultWavePause)
			if err != nil {
				c.Err(err)
				return
			}
			if err := sh.ShellFrom(c).Conn.Sender.Wave(context.TODO(), step, pause); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// RawCmd writes raw bytes, for testing the receiver.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "HEX..., write raw bytes, e.g. raw AA 55 0A 0B",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			data, err := ParseHex(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if _, err := sh.ShellFrom(c).Conn.Writer.Write(data); err != nil {
				c.Err(err)
				return
			}
			c.Printf("wrote % X\n", data)
		}),
	}

	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name: "ports",
		Help: "list serial ports",
		Func: func(c *ishell.Context) {
			ports, err := serial.Ports()
			if err != nil {
				c.Err(err)
				return
			}
			for _, port := range ports {
				c.Println(port)
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&ExtendCmd,
		&RetractCmd,
		&SweepCmd,
		&WaveCmd,
		&RawCmd,
		&PortsCmd,
	)
}
