package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/taskstream/taskstream/internal/domain"
)

var testKeyCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithTargetDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.TargetDate = &d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithKey(key string) ProjectOption {
	return func(p *domain.Project) {
		p.Key = key
	}
}

func WithOwner(owner string) ProjectOption {
	return func(p *domain.Project) {
		p.Owner = owner
	}
}

func defaultKey(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 2 {
		letters = append(letters, 'X')
	}
	n := testKeyCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Key:       defaultKey(name),
		Name:      name,
		Owner:     "test-owner",
		StartDate: now.AddDate(0, -1, 0),
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithAssignee(a string) TaskOption {
	return func(t *domain.Task) {
		t.Assignee = a
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithEstimate(min int) TaskOption {
	return func(t *domain.Task) {
		t.EstimateMin = min
	}
}

func WithLogged(min int) TaskOption {
	return func(t *domain.Task) {
		t.LoggedMin = min
	}
}

func WithCompletedAt(ts time.Time) TaskOption {
	return func(t *domain.Task) {
		t.Status = domain.TaskDone
		t.CompletedAt = &ts
	}
}

func WithSource(s domain.TaskSource) TaskOption {
	return func(t *domain.Task) {
		t.Source = s
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Status:    domain.TaskTodo,
		Priority:  domain.PriorityMedium,
		Source:    domain.SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestActivity(projectID string, typ domain.ActivityType, message string) *domain.ActivityItem {
	return &domain.ActivityItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Actor:     "test-actor",
		Type:      typ,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

func NewTestNotification(channel domain.Channel, recipient string) *domain.Notification {
	return &domain.Notification{
		ID:        uuid.New().String(),
		Channel:   channel,
		Recipient: recipient,
		Subject:   "Test subject",
		Body:      "Test body",
		Status:    domain.NotificationPending,
		CreatedAt: time.Now().UTC(),
	}
}

func NewTestSyncRun(adapter string) *domain.SyncRun {
	return &domain.SyncRun{
		ID:        uuid.New().String(),
		Adapter:   adapter,
		StartedAt: time.Now().UTC(),
	}
}
