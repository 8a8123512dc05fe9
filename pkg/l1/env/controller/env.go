// Package controller sets up the environment of a solenoid controller:
// its identity and the optional MQTT registry.
package controller

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
	"github.com/robotalks/solenoid.go/pkg/l1"
	"github.com/robotalks/solenoid.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/solenoid.go/pkg/l1/env"
)

// Config provides common options to setup an env for controllers.
type Config struct {
	Info l1.ControllerInfo

	// MQTTBrokerURL specifies the MQTT broker to use, empty disables MQTT.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// MQTTCommands accepts frames published to the cmd channel.
	MQTTCommands bool
	// ReportDrops publishes dropped and expired frames.
	ReportDrops bool
}

var defaultConfig = Config{
	Info: l1.ControllerInfo{
		Ref: l1.ControllerRef{Type: l1.DefaultControllerType},
	},
}

func init() {
	if val := os.Getenv("SOLENOID_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("SOLENOID_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Controller type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Controller ID, default is derived from machine ID")
	flag.StringVar(&defaultConfig.Info.Meta.Description, "desc", defaultConfig.Info.Meta.Description, "Controller description")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, e.g. mqtt://localhost:1883/solenoid/")
	flag.BoolVar(&defaultConfig.MQTTCommands, "mqtt-cmd", defaultConfig.MQTTCommands, "Accept frames from MQTT")
	flag.BoolVar(&defaultConfig.ReportDrops, "report-drops", defaultConfig.ReportDrops, "Publish dropped and expired frames")
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

// Env is the env for controllers.
type Env struct {
	Config *Config
	// Reporter is nil when MQTT is disabled.
	Reporter *mqtt.Reporter
	// Transport is nil unless MQTTCommands is set.
	Transport *mqtt.Transport
}

// NewEnv creates Env from config. The controller ID defaults to the
// machine ID.
func (c *Config) NewEnv() (*Env, error) {
	if c.Info.Ref.ID == "" {
		c.Info.Ref.ID = env.MachineID()
	}
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("controller type and id must be specified")
	}
	e := &Env{Config: c}
	if c.MQTTBrokerURL == "" {
		if c.MQTTCommands {
			return nil, fmt.Errorf("-mqtt-cmd requires -mqtt")
		}
		return e, nil
	}
	reporter, err := mqtt.NewReporter(c.MQTTBrokerURL, c.Info)
	if err != nil {
		return nil, fmt.Errorf("create MQTT reporter error: %w", err)
	}
	reporter.Drops = c.ReportDrops
	e.Reporter = reporter
	if c.MQTTCommands {
		e.Transport = mqtt.NewTransport(reporter.Queue, c.Info.Ref)
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// Observer returns the frame observer of the env, nil without MQTT.
func (e *Env) Observer() comm.Observer {
	if e.Reporter == nil {
		return nil
	}
	return e.Reporter
}
