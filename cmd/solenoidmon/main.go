package main

import (
	"context"
	"flag"
	"log"
	"os"

	fx "github.com/robotalks/solenoid.go/pkg/framework"
	"github.com/robotalks/solenoid.go/pkg/l1/comm/mqtt"
	env "github.com/robotalks/solenoid.go/pkg/l1/env/connector"
)

func init() {
	env.SetupFlags()
	if val := os.Getenv("SOLENOID_MQTT_URL"); val != "" && env.Default().URL == "" {
		env.Default().URL = val
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	conf := env.NewConfig()
	if conf.URL == "" {
		conf.URL = "mqtt://localhost:1883/solenoid/"
	}
	monitor := conf.MustNewMonitor()
	if err := monitor.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer monitor.Close()

	ref := conf.Ref
	if !flagSet("id") {
		ref.ID = ""
	}
	r := fx.NewRunner().HandleSignals()
	infoList, err := monitor.Discover(r.Context)
	if err != nil {
		log.Fatalln(err)
	}
	for _, info := range infoList {
		log.Printf("%s: %d devices, pins %v %s", info.Ref.Name(), info.Meta.Devices, info.Meta.Pins, info.Meta.Description)
	}

	r.Go(fx.RunFunc(func(ctx context.Context) error {
		return monitor.Watch(ctx, ref, func(ev mqtt.Event) {
			log.Printf("%s #%d: %s", ev.Ref.Name(), ev.Sequence, ev.Msg.Describe())
		})
	}))
	if err := r.Wait(); err != nil {
		log.Fatalln(err)
	}
}

func flagSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return
}
