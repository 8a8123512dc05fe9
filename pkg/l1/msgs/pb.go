package msgs

import (
	"github.com/golang/protobuf/proto"
)

// PbTyped is the wire envelope.
type PbTyped struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *PbTyped) Reset()         { *m = PbTyped{} }
func (m *PbTyped) String() string { return proto.CompactTextString(m) }
func (*PbTyped) ProtoMessage()    {}

// PbActuated reports a finished actuation.
type PbActuated struct {
	Device    int32  `protobuf:"varint,1,opt,name=device,proto3" json:"device,omitempty"`
	Action    string `protobuf:"bytes,2,opt,name=action,proto3" json:"action,omitempty"`
	ElapsedUs int64  `protobuf:"varint,3,opt,name=elapsed_us,json=elapsedUs,proto3" json:"elapsed_us,omitempty"`
	Error     string `protobuf:"bytes,4,opt,name=error,proto3" json:"error,omitempty"`
	Timestamp int64  `protobuf:"varint,5,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *PbActuated) Reset()         { *m = PbActuated{} }
func (m *PbActuated) String() string { return proto.CompactTextString(m) }
func (*PbActuated) ProtoMessage()    {}

// PbFrameDropped reports a completed frame with an invalid payload.
type PbFrameDropped struct {
	Frame     []byte `protobuf:"bytes,1,opt,name=frame,proto3" json:"frame,omitempty"`
	Reason    string `protobuf:"bytes,2,opt,name=reason,proto3" json:"reason,omitempty"`
	Timestamp int64  `protobuf:"varint,3,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *PbFrameDropped) Reset()         { *m = PbFrameDropped{} }
func (m *PbFrameDropped) String() string { return proto.CompactTextString(m) }
func (*PbFrameDropped) ProtoMessage()    {}

// PbFrameExpired reports a partial frame discarded by timeout.
type PbFrameExpired struct {
	State     string `protobuf:"bytes,1,opt,name=state,proto3" json:"state,omitempty"`
	Timestamp int64  `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *PbFrameExpired) Reset()         { *m = PbFrameExpired{} }
func (m *PbFrameExpired) String() string { return proto.CompactTextString(m) }
func (*PbFrameExpired) ProtoMessage()    {}
