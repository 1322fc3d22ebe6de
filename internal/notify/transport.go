package notify

import (
	"context"
	"errors"
	"time"
)

// Priority is the transport delivery class of a message.
type Priority string

const (
	// PriorityHigh requests expedited, low-latency delivery that wakes devices.
	PriorityHigh Priority = "high"
	// PriorityNormal requests standard delivery.
	PriorityNormal Priority = "normal"
)

// Message is a transport-ready, platform-aware push payload.
// All Data values are strings: the transport requires homogeneous string maps.
type Message struct {
	// Topic is the broadcast channel the message is published to.
	Topic string
	// Title and Body are the human-readable notification texts.
	Title string
	Body  string
	// Data is carried alongside the human text so clients can act
	// programmatically even when the app is backgrounded.
	Data map[string]string
	// Priority selects expedited or standard delivery.
	Priority Priority
	// TTL is how long the message stays queued when undeliverable.
	TTL time.Duration
	// AndroidChannelID and Sound are device-side presentation hints.
	AndroidChannelID string
	Sound            string
	// ClickAction routes notification taps inside the client app.
	ClickAction string
	// ContentAvailable wakes backgrounded apps for the message.
	ContentAvailable bool
}

// ErrUnavailable reports that no delivery capability is configured.
var ErrUnavailable = errors.New("notification transport is not configured")

// Transport is the capability to publish a message to a topic.
// Implementations must apply their own bounded timeouts on top of ctx.
type Transport interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// Noop is the degraded-mode transport used when push credentials are absent.
// Every send short-circuits to ErrUnavailable; state operations are unaffected.
type Noop struct{}

// Send reports the transport as unavailable.
func (Noop) Send(context.Context, *Message) (string, error) {
	return "", ErrUnavailable
}
