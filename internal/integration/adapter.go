package integration

import (
	"context"
	"errors"
	"time"

	"github.com/taskstream/taskstream/internal/domain"
)

var (
	// ErrNotConfigured indicates the adapter was built from a disabled or
	// incomplete configuration section.
	ErrNotConfigured = errors.New("adapter not configured")

	// ErrInvalidMessage indicates the outbound message is missing fields
	// the target channel requires.
	ErrInvalidMessage = errors.New("invalid outbound message")

	// ErrSendFailed indicates delivery failed after the adapter's own
	// protection (rate limit, circuit breaker) or the remote API refused.
	ErrSendFailed = errors.New("send failed")
)

// Message is an outbound payload for any integration channel. Adapters use
// the fields relevant to their channel and ignore the rest.
type Message struct {
	Subject   string
	Body      string
	Recipient string // email address or channel override
	IssueType string // jira issue type, defaults to Task
	Priority  string // jira priority name
}

// FromNotification converts a queued notification into an adapter message.
func FromNotification(n *domain.Notification) Message {
	return Message{
		Subject:   n.Subject,
		Body:      n.Body,
		Recipient: n.Recipient,
	}
}

// Status is a point-in-time health report for one adapter. LastError holds
// the message of the most recent delivery failure, LastErrorAt its time.
type Status struct {
	Name         string         `json:"name"`
	Kind         string         `json:"kind"`
	Connected    bool           `json:"connected"`
	LastSync     time.Time      `json:"lastSync"`
	LastErrorAt  time.Time      `json:"lastErrorAt"`
	LastError    string         `json:"lastError,omitempty"`
	ErrorCount   int            `json:"errorCount"`
	SuccessRate  float64        `json:"successRate"`
	BreakerState string         `json:"breakerState,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Adapter is the contract every external channel implements.
type Adapter interface {
	// Name is the registration key, e.g. "slack".
	Name() string

	// Send delivers one message to the external service.
	Send(ctx context.Context, msg Message) error

	// Ping verifies connectivity without sending anything.
	Ping(ctx context.Context) error

	// Status reports adapter health. Ping failures are reflected in the
	// Connected field rather than returned.
	Status(ctx context.Context) Status
}
