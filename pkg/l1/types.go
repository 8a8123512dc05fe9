// Package l1 describes a solenoid controller to the outside world:
// its identity, its metadata and the events it emits.
package l1

import (
	"context"

	"github.com/robotalks/solenoid.go/pkg/l1/msgs"
)

// DefaultControllerType is the type of controllers built from this module.
const DefaultControllerType = "solenoid"

// EventSink receives events from a controller.
type EventSink interface {
	SendEvent(context.Context, msgs.Message) error
}

// ControllerRef is a reference to a controller.
type ControllerRef struct {
	// Type is controller type.
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r ControllerRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates ControllerRef is valid.
func (r ControllerRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// ControllerMeta provides metadata for a controller.
type ControllerMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Devices     int               `json:"devices,omitempty"`
	Pins        []int             `json:"pins,omitempty"`
}

// ControllerInfo provides information of a controller.
type ControllerInfo struct {
	Ref  ControllerRef
	Meta ControllerMeta
}

// Topic returns the topic of a controller channel, relative to
// the registry prefix.
func (r ControllerRef) Topic(channel string) string {
	return r.Name() + "/" + channel
}

// Channels of a controller.
const (
	ChannelMeta = "meta"
	ChannelMsg  = "msg"
	ChannelCmd  = "cmd"
)
