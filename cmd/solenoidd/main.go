package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/solenoid.go/pkg/daemon"
	fx "github.com/robotalks/solenoid.go/pkg/framework"
)

func init() {
	daemon.SetupFlags()
}

func main() {
	flag.Parse()

	d := daemon.NewConfig().MustNewDaemon()
	defer d.Close()
	if err := d.Run(fx.NewRunner().HandleSignals()); err != nil {
		d.Close()
		log.Fatalln(err)
	}
}
