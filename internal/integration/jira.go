package integration

import (
	"context"
	"fmt"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"github.com/sony/gobreaker"
	"github.com/taskstream/taskstream/internal/config"
	"golang.org/x/time/rate"
)

const (
	defaultIssueType = "Task"
	defaultPriority  = "Medium"
)

// jiraAPI is the slice of the Jira client the adapter uses.
type jiraAPI interface {
	CreateIssue(ctx context.Context, issue *jira.Issue) error
	Myself(ctx context.Context) error
}

// JiraAdapter files issues in a Jira project.
type JiraAdapter struct {
	client     jiraAPI
	projectKey string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	health     health
	now        func() time.Time
}

// jiraClient adapts the go-jira library to the jiraAPI interface.
type jiraClient struct {
	c *jira.Client
}

func (j *jiraClient) CreateIssue(ctx context.Context, issue *jira.Issue) error {
	_, resp, err := j.c.Issue.CreateWithContext(ctx, issue)
	if err != nil {
		return err
	}
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return fmt.Errorf("jira returned status %d", resp.StatusCode)
	}
	return nil
}

func (j *jiraClient) Myself(ctx context.Context) error {
	_, _, err := j.c.User.GetSelfWithContext(ctx)
	return err
}

// NewJiraAdapter builds a Jira adapter from configuration.
func NewJiraAdapter(cfg config.JiraConfig) (*JiraAdapter, error) {
	if !cfg.Enabled || cfg.URL == "" || cfg.Username == "" || cfg.APIToken == "" {
		return nil, fmt.Errorf("%w: jira", ErrNotConfigured)
	}

	tp := jira.BasicAuthTransport{
		Username: cfg.Username,
		Password: cfg.APIToken,
	}
	client, err := jira.NewClient(tp.Client(), cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("creating jira client: %w", err)
	}

	return &JiraAdapter{
		client:     &jiraClient{c: client},
		projectKey: cfg.ProjectKey,
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
		breaker:    newBreaker("jira"),
		now:        time.Now,
	}, nil
}

func (a *JiraAdapter) Name() string { return "jira" }

func (a *JiraAdapter) Send(ctx context.Context, msg Message) error {
	if msg.Subject == "" {
		return fmt.Errorf("%w: jira issues need a summary", ErrInvalidMessage)
	}

	if err := a.limiter.Wait(ctx); err != nil {
		a.health.recordFailure(a.now(), err)
		return fmt.Errorf("%w: rate limit wait: %v", ErrSendFailed, err)
	}

	issueType := msg.IssueType
	if issueType == "" {
		issueType = defaultIssueType
	}
	priority := msg.Priority
	if priority == "" {
		priority = defaultPriority
	}

	issue := &jira.Issue{
		Fields: &jira.IssueFields{
			Type:        jira.IssueType{Name: issueType},
			Project:     jira.Project{Key: a.projectKey},
			Summary:     msg.Subject,
			Description: msg.Body,
			Priority:    &jira.Priority{Name: priority},
		},
	}

	_, err := a.breaker.Execute(func() (interface{}, error) {
		return nil, a.client.CreateIssue(ctx, issue)
	})
	if err != nil {
		a.health.recordFailure(a.now(), err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	a.health.recordSuccess(a.now())
	return nil
}

func (a *JiraAdapter) Ping(ctx context.Context) error {
	if err := a.client.Myself(ctx); err != nil {
		return fmt.Errorf("jira myself check: %w", err)
	}
	return nil
}

func (a *JiraAdapter) Status(ctx context.Context) Status {
	s := Status{
		Name:         a.Name(),
		Kind:         "issue_tracker",
		Connected:    a.Ping(ctx) == nil,
		BreakerState: a.breaker.State().String(),
		Metadata:     map[string]any{
			"projectKey":      a.projectKey,
			"rateLimitPerSec": float64(a.limiter.Limit()),
			"rateLimitBurst":  a.limiter.Burst(),
			"breakerFailures": a.breaker.Counts().TotalFailures,
		},
	}
	a.health.fill(&s)
	return s
}
