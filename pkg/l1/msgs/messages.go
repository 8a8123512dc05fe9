package msgs

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

// Actuated event.
type Actuated struct {
	PbActuated
}

// NewActuated creates an Actuated event.
func NewActuated(cmd comm.Command, elapsed time.Duration, err error, at time.Time) *Actuated {
	m := &Actuated{PbActuated: PbActuated{
		Device:    int32(cmd.Device),
		Action:    cmd.Action.String(),
		ElapsedUs: elapsed.Microseconds(),
		Timestamp: at.UnixNano(),
	}}
	if err != nil {
		m.Error = err.Error()
	}
	return m
}

// NewMessage implements Message.
func (m *Actuated) NewMessage() Message { return &Actuated{} }

// TypeID implements Message.
func (m *Actuated) TypeID() uint32 { return ActuatedTypeID }

// Serializable implements Message.
func (m *Actuated) Serializable() proto.Message { return &m.PbActuated }

// Describe implements Message.
func (m *Actuated) Describe() string {
	if m.Error != "" {
		return fmt.Sprintf("device %d %s failed: %s", m.Device, m.Action, m.Error)
	}
	return fmt.Sprintf("device %d %s in %s", m.Device, m.Action, time.Duration(m.ElapsedUs)*time.Microsecond)
}

// FrameDropped event.
type FrameDropped struct {
	PbFrameDropped
}

// NewFrameDropped creates a FrameDropped event.
func NewFrameDropped(frame comm.Frame, err error, at time.Time) *FrameDropped {
	return &FrameDropped{PbFrameDropped: PbFrameDropped{
		Frame:     frame.Bytes(),
		Reason:    err.Error(),
		Timestamp: at.UnixNano(),
	}}
}

// NewMessage implements Message.
func (m *FrameDropped) NewMessage() Message { return &FrameDropped{} }

// TypeID implements Message.
func (m *FrameDropped) TypeID() uint32 { return FrameDroppedTypeID }

// Serializable implements Message.
func (m *FrameDropped) Serializable() proto.Message { return &m.PbFrameDropped }

// Describe implements Message.
func (m *FrameDropped) Describe() string {
	return fmt.Sprintf("dropped % X: %s", m.Frame, m.Reason)
}

// FrameExpired event.
type FrameExpired struct {
	PbFrameExpired
}

// NewFrameExpired creates a FrameExpired event.
func NewFrameExpired(state comm.State, at time.Time) *FrameExpired {
	return &FrameExpired{PbFrameExpired: PbFrameExpired{
		State:     state.String(),
		Timestamp: at.UnixNano(),
	}}
}

// NewMessage implements Message.
func (m *FrameExpired) NewMessage() Message { return &FrameExpired{} }

// TypeID implements Message.
func (m *FrameExpired) TypeID() uint32 { return FrameExpiredTypeID }

// Serializable implements Message.
func (m *FrameExpired) Serializable() proto.Message { return &m.PbFrameExpired }

// Describe implements Message.
func (m *FrameExpired) Describe() string {
	return "frame timeout in state " + m.State
}

// TypeID Groups
const (
	GroupActuator uint32 = 0x00010000
	GroupReceiver uint32 = 0x00020000
	GroupCustom   uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	ActuatedTypeID     uint32 = TypeIDKindEvent | GroupActuator | 0x0001
	FrameDroppedTypeID uint32 = TypeIDKindEvent | GroupReceiver | 0x0001
	FrameExpiredTypeID uint32 = TypeIDKindEvent | GroupReceiver | 0x0002
)
