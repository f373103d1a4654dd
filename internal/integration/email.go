package integration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/taskstream/taskstream/internal/config"
	"golang.org/x/time/rate"
	gomail "gopkg.in/gomail.v2"
)

// smtpDialer is the slice of gomail the adapter uses.
type smtpDialer interface {
	DialAndSend(m ...*gomail.Message) error
	Dial() (gomail.SendCloser, error)
}

// EmailAdapter delivers notifications over SMTP.
type EmailAdapter struct {
	dialer         smtpDialer
	from           string
	allowedDomains []string
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker
	health         health
	now            func() time.Time
}

// NewEmailAdapter builds an SMTP adapter from configuration.
func NewEmailAdapter(cfg config.EmailConfig) (*EmailAdapter, error) {
	if !cfg.Enabled || cfg.Host == "" || cfg.Port == 0 || cfg.FromAddress == "" {
		return nil, fmt.Errorf("%w: email", ErrNotConfigured)
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// Port 465 is implicit TLS; 587 negotiates STARTTLS, which gomail
	// handles on its own.
	d.SSL = cfg.UseTLS && cfg.Port == 465

	return &EmailAdapter{
		dialer:         d,
		from:           cfg.FromAddress,
		allowedDomains: cfg.AllowedDomains,
		limiter:        rate.NewLimiter(rate.Limit(5), 10),
		breaker:        newBreaker("email"),
		now:            time.Now,
	}, nil
}

func (a *EmailAdapter) Name() string { return "email" }

func (a *EmailAdapter) Send(ctx context.Context, msg Message) error {
	if msg.Recipient == "" || msg.Subject == "" {
		return fmt.Errorf("%w: email needs recipient and subject", ErrInvalidMessage)
	}
	if err := a.checkDomain(msg.Recipient); err != nil {
		return err
	}

	if err := a.limiter.Wait(ctx); err != nil {
		a.health.recordFailure(a.now(), err)
		return fmt.Errorf("%w: rate limit wait: %v", ErrSendFailed, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", a.from)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, a.dialer.DialAndSend(m)
	})
	if err != nil {
		a.health.recordFailure(a.now(), err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	a.health.recordSuccess(a.now())
	return nil
}

// checkDomain enforces the allowed-recipient-domain list when configured.
func (a *EmailAdapter) checkDomain(addr string) error {
	if len(a.allowedDomains) == 0 {
		return nil
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return fmt.Errorf("%w: malformed address %q", ErrInvalidMessage, addr)
	}
	domain := strings.ToLower(addr[at+1:])
	for _, allowed := range a.allowedDomains {
		if domain == strings.ToLower(allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w: recipient domain %q not allowed", ErrInvalidMessage, domain)
}

func (a *EmailAdapter) Ping(_ context.Context) error {
	conn, err := a.dialer.Dial()
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	return conn.Close()
}

func (a *EmailAdapter) Status(ctx context.Context) Status {
	s := Status{
		Name:         a.Name(),
		Kind:         "email",
		Connected:    a.Ping(ctx) == nil,
		BreakerState: a.breaker.State().String(),
		Metadata:     map[string]any{
			"from":            a.from,
			"allowedDomains":  len(a.allowedDomains),
			"rateLimitPerSec": float64(a.limiter.Limit()),
			"rateLimitBurst":  a.limiter.Burst(),
			"breakerFailures": a.breaker.Counts().TotalFailures,
		},
	}
	a.health.fill(&s)
	return s
}
