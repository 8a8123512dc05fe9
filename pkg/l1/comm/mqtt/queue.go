package mqtt

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// ErrTimeout indicates a token not completed in time.
var ErrTimeout = errors.New("mqtt operation timeout")

// DefaultTimeout bounds waiting on a token.
const DefaultTimeout = 5 * time.Second

// Handler is called with the topic relative to the queue prefix.
type Handler func(topic string, payload []byte)

// Queue is a broker connection scoped to a topic prefix. Handlers are
// dispatched locally, so several handlers share one broker subscription
// per pattern, and all patterns are restored on reconnect.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
	// OnConnect is called after every (re)connect.
	OnConnect func(*Queue)

	lock sync.RWMutex
	subs map[string]*patternSubs
}

type patternSubs struct {
	qos  byte
	list []*Subscription
}

// Subscription is a handler registered on a pattern.
type Subscription struct {
	Token paho.Token

	queue   *Queue
	pattern string
	handler Handler
}

// WaitToken waits a token for at most DefaultTimeout.
func WaitToken(token paho.Token) error {
	if !token.WaitTimeout(DefaultTimeout) {
		return ErrTimeout
	}
	return token.Error()
}

// MatchTopic matches topic with pattern. A trailing "#" also matches
// the parent level, "a/#" matches "a".
func MatchTopic(topic, pattern string) bool {
	tokensT, tokensP := strings.Split(topic, "/"), strings.Split(pattern, "/")
	for i, token := range tokensP {
		if token == "#" && i+1 == len(tokensP) {
			return true
		}
		if i >= len(tokensT) {
			return false
		}
		if token != "+" && token != tokensT[i] {
			return false
		}
	}
	return len(tokensP) == len(tokensT)
}

// ClientOptionsFromURL parses a broker URL of the form
// mqtt://[user:pass@]host:port/prefix/?client-id=ID. The path is
// returned as the topic prefix. Schemes other than mqtt are passed to
// paho as is (tcp, ssl, ws, wss).
func ClientOptionsFromURL(brokerURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(brokerURL)
	if err != nil {
		return nil, "", err
	}
	scheme := u.Scheme
	switch scheme {
	case "", "mqtt":
		scheme = "tcp"
	case "mqtts":
		scheme = "ssl"
	}
	opts := paho.NewClientOptions().
		AddBroker(scheme + "://" + u.Host).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	if id := u.Query().Get("client-id"); id != "" {
		opts.SetClientID(id)
	}
	return opts, strings.TrimPrefix(u.Path, "/"), nil
}

// NewQueue creates a Queue and its client from options.
func NewQueue(opts *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	opts.SetOnConnectHandler(func(paho.Client) { q.connected() })
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		glog.Warningf("mqtt connection lost: %v", err)
	})
	q.Client = paho.NewClient(opts)
	return q
}

// NewQueueFromURL creates a Queue from a broker URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, prefix), nil
}

// Connect starts connecting. Auto reconnect is enabled.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// ConnectAndWait connects and waits for the result.
func (q *Queue) ConnectAndWait() error {
	return WaitToken(q.Connect())
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub registers handler on a relative topic pattern.
func (q *Queue) Sub(pattern string, qos byte, handler Handler) *Subscription {
	sub := &Subscription{queue: q, pattern: pattern, handler: handler}
	q.lock.Lock()
	if q.subs == nil {
		q.subs = make(map[string]*patternSubs)
	}
	entry := q.subs[pattern]
	first := entry == nil
	if first {
		entry = &patternSubs{qos: qos}
		q.subs[pattern] = entry
	}
	entry.list = append(entry.list, sub)
	q.lock.Unlock()

	if first {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+pattern)
		sub.Token = q.Client.Subscribe(q.TopicPrefix+pattern, qos, q.dispatch)
	} else {
		sub.Token = &paho.DummyToken{}
	}
	return sub
}

// Pub publishes to a relative topic.
func (q *Queue) Pub(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

func (q *Queue) connected() {
	glog.Infof("mqtt connected, prefix %q", q.TopicPrefix)
	filters := make(map[string]byte)
	q.lock.RLock()
	for pattern, entry := range q.subs {
		filters[q.TopicPrefix+pattern] = entry.qos
	}
	q.lock.RUnlock()
	if len(filters) > 0 {
		q.Client.SubscribeMultiple(filters, q.dispatch)
	}
	if fn := q.OnConnect; fn != nil {
		fn(q)
	}
}

func (q *Queue) dispatch(_ paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	glog.V(3).Infof("RCV %q", topic)
	var handlers []Handler
	q.lock.RLock()
	for pattern, entry := range q.subs {
		if MatchTopic(topic, pattern) {
			for _, sub := range entry.list {
				handlers = append(handlers, sub.handler)
			}
		}
	}
	q.lock.RUnlock()
	payload := msg.Payload()
	for _, h := range handlers {
		h(topic, payload)
	}
}

// Close removes the handler. The broker subscription is dropped with
// the last handler of the pattern.
func (s *Subscription) Close() error {
	q := s.queue
	q.lock.Lock()
	entry := q.subs[s.pattern]
	last := false
	if entry != nil {
		for i, sub := range entry.list {
			if sub == s {
				entry.list = append(entry.list[:i], entry.list[i+1:]...)
				break
			}
		}
		if last = len(entry.list) == 0; last {
			delete(q.subs, s.pattern)
		}
	}
	q.lock.Unlock()
	if !last {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", q.TopicPrefix+s.pattern)
	return WaitToken(q.Client.Unsubscribe(q.TopicPrefix + s.pattern))
}
