package mqtt

import (
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/robotalks/solenoid.go/pkg/l1"
)

// ChannelHandler receives a payload from a controller channel.
type ChannelHandler func(ref l1.ControllerRef, payload []byte)

// ChannelQoS is the QoS used on a channel. Meta and commands are
// delivered at least once, events are best effort.
func ChannelQoS(channel string) byte {
	if channel == l1.ChannelMsg {
		return 0
	}
	return 1
}

// ChannelPattern returns the pattern matching a channel of ref.
// An empty Type or ID matches any controller.
func ChannelPattern(ref l1.ControllerRef, channel string) string {
	typ, id := ref.Type, ref.ID
	if typ == "" {
		typ = "+"
	}
	if id == "" {
		id = "+"
	}
	return typ + "/" + id + "/" + channel
}

// ParseRef extracts the controller ref from a topic "type/id/channel".
func ParseRef(topic string) (l1.ControllerRef, bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 || items[0] == "" || items[1] == "" {
		return l1.ControllerRef{}, false
	}
	return l1.ControllerRef{Type: items[0], ID: items[1]}, true
}

// SetWill makes the broker clear the retained meta of ref when the
// connection is lost.
func SetWill(opts *paho.ClientOptions, topicPrefix string, ref l1.ControllerRef) {
	opts.SetBinaryWill(topicPrefix+ref.Topic(l1.ChannelMeta), nil, ChannelQoS(l1.ChannelMeta), true)
}

// SubChannel subscribes a channel of the controllers matching ref.
func (q *Queue) SubChannel(ref l1.ControllerRef, channel string, fn ChannelHandler) *Subscription {
	return q.Sub(ChannelPattern(ref, channel), ChannelQoS(channel), func(topic string, payload []byte) {
		if from, ok := ParseRef(topic); ok {
			fn(from, payload)
		}
	})
}

// Announce publishes the retained meta of a controller.
func (q *Queue) Announce(ref l1.ControllerRef, meta []byte) paho.Token {
	return q.Pub(ref.Topic(l1.ChannelMeta), meta, ChannelQoS(l1.ChannelMeta), true)
}

// Withdraw clears the retained meta of a controller.
func (q *Queue) Withdraw(ref l1.ControllerRef) paho.Token {
	return q.Pub(ref.Topic(l1.ChannelMeta), nil, ChannelQoS(l1.ChannelMeta), true)
}

// Emit publishes an encoded event of a controller.
func (q *Queue) Emit(ref l1.ControllerRef, event []byte) paho.Token {
	return q.Pub(ref.Topic(l1.ChannelMsg), event, ChannelQoS(l1.ChannelMsg), false)
}

// Command publishes raw frame bytes to a controller.
func (q *Queue) Command(ref l1.ControllerRef, frames []byte) paho.Token {
	return q.Pub(ref.Topic(l1.ChannelCmd), frames, ChannelQoS(l1.ChannelCmd), false)
}
