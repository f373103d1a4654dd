package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/slack-go/slack"
	"github.com/sony/gobreaker"
	"github.com/taskstream/taskstream/internal/config"
	"golang.org/x/time/rate"
)

// slackAPI is the slice of the Slack client the adapter uses.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

// SlackAdapter posts messages to a Slack channel with rate limiting and a
// circuit breaker in front of the API.
type SlackAdapter struct {
	client  slackAPI
	channel string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	health  health
	now     func() time.Time
}

// NewSlackAdapter builds a Slack adapter from configuration.
func NewSlackAdapter(cfg config.SlackConfig) (*SlackAdapter, error) {
	if !cfg.Enabled || cfg.Token == "" {
		return nil, fmt.Errorf("%w: slack", ErrNotConfigured)
	}
	a := &SlackAdapter{
		client:  slack.New(cfg.Token),
		channel: cfg.DefaultChannel,
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		breaker: newBreaker("slack"),
		now:     time.Now,
	}
	return a, nil
}

// newBreaker configures the circuit breaker shared by all adapters. It trips
// once half of at least ten observed requests have failed.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	})
}

func (a *SlackAdapter) Name() string { return "slack" }

func (a *SlackAdapter) Send(ctx context.Context, msg Message) error {
	if msg.Body == "" {
		return ErrInvalidMessage
	}
	channel := a.channel
	if msg.Recipient != "" {
		channel = msg.Recipient
	}
	if channel == "" {
		return fmt.Errorf("%w: no slack channel", ErrInvalidMessage)
	}

	if err := a.limiter.Wait(ctx); err != nil {
		a.health.recordFailure(a.now(), err)
		return fmt.Errorf("%w: rate limit wait: %v", ErrSendFailed, err)
	}

	text := msg.Body
	if msg.Subject != "" {
		text = "*" + msg.Subject + "*\n" + msg.Body
	}

	_, err := a.breaker.Execute(func() (interface{}, error) {
		_, _, postErr := a.client.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
		return nil, postErr
	})
	if err != nil {
		a.health.recordFailure(a.now(), err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	a.health.recordSuccess(a.now())
	return nil
}

func (a *SlackAdapter) Ping(ctx context.Context) error {
	if _, err := a.client.AuthTestContext(ctx); err != nil {
		return fmt.Errorf("slack auth test: %w", err)
	}
	return nil
}

func (a *SlackAdapter) Status(ctx context.Context) Status {
	s := Status{
		Name:         a.Name(),
		Kind:         "chat",
		Connected:    a.Ping(ctx) == nil,
		BreakerState: a.breaker.State().String(),
		Metadata:     map[string]any{
			"channel":         a.channel,
			"rateLimitPerSec": float64(a.limiter.Limit()),
			"rateLimitBurst":  a.limiter.Burst(),
			"breakerFailures": a.breaker.Counts().TotalFailures,
		},
	}
	a.health.fill(&s)
	return s
}
