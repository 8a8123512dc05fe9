package daemon

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/solenoid.go/pkg/actuator"
	fx "github.com/robotalks/solenoid.go/pkg/framework"
	"github.com/robotalks/solenoid.go/pkg/gpio"
	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

func newTestConfig() *Config {
	conf := NewConfig()
	conf.GPIO.Backend = gpio.BackendSim
	conf.Actuator.Pins = actuator.FormatPins(actuator.DefaultPins)
	conf.Serial.Port = ""
	conf.Env.MQTTBrokerURL = ""
	conf.Env.MQTTCommands = false
	conf.Env.Info.Ref.ID = "bench"
	conf.WebsocketAddr, conf.MetricsAddr = "", ""
	conf.Joystick.Enabled = false
	return conf
}

func TestDaemonRequiresSource(t *testing.T) {
	d, err := newTestConfig().NewDaemon()
	require.NoError(t, err)
	defer d.Close()
	require.Error(t, d.Run(fx.NewRunner()))
}

func TestDaemonInitializesPins(t *testing.T) {
	conf := newTestConfig()
	d, err := conf.NewDaemon()
	require.NoError(t, err)
	defer d.Close()
	recorder := d.Driver.(*gpio.Recorder)
	for _, pin := range actuator.DefaultPins {
		level, ok := recorder.Level(pin)
		require.True(t, ok)
		require.Equal(t, gpio.Low, level)
	}
	require.Empty(t, recorder.Writes())
	require.Equal(t, 9, conf.Env.Info.Meta.Devices)
	require.Len(t, conf.Env.Info.Meta.Pins, 18)
}

func runStream(t *testing.T, conf *Config, stream []byte) *Daemon {
	d, err := conf.NewDaemon()
	require.NoError(t, err)
	defer d.Close()
	d.Driver.(*gpio.Recorder).Record = true
	d.AddTransport("test", comm.NewStreamTransport(bytes.NewReader(stream)))
	err = d.Run(fx.NewRunner())
	require.True(t, errors.Is(err, io.EOF), "unexpected error %v", err)
	return d
}

func TestDaemonActuatesFromStream(t *testing.T) {
	conf := newTestConfig()
	conf.MetricsAddr = "127.0.0.1:0"
	d := runStream(t, conf, []byte{
		0xAA, 0x55, 0x0A, 0x0B,
		0xAA, 0x55, 0x13, 0x0B,
		0xAA, 0x55, 0x12, 0x0A,
	})
	writes := d.Driver.(*gpio.Recorder).Writes()
	require.Len(t, writes, 12)
	require.Equal(t, gpio.Write{Pin: 4, Level: gpio.High}, writes[3])
	require.Equal(t, gpio.Write{Pin: 2, Level: gpio.High}, writes[9])
}

func TestDaemonAsync(t *testing.T) {
	conf := newTestConfig()
	conf.Actuator.Async = true
	d := runStream(t, conf, []byte{
		0xAA, 0x55, 0x0B, 0x0B,
		0xAA, 0x55, 0x0B, 0x0A,
	})
	writes := d.Driver.(*gpio.Recorder).Writes()
	require.Len(t, writes, 12)
	// device 1 is on 13/14, extend then retract in order.
	require.Equal(t, gpio.Write{Pin: 13, Level: gpio.High}, writes[3])
	require.Equal(t, gpio.Write{Pin: 14, Level: gpio.High}, writes[9])
}
