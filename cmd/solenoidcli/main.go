package main

import (
	"github.com/robotalks/solenoid.go/pkg/cli/sh"
	env "github.com/robotalks/solenoid.go/pkg/l1/env/connector"

	_ "github.com/robotalks/solenoid.go/pkg/cli/cmds/solenoid"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
