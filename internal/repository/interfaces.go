package repository

import (
	"context"
	"errors"
	"time"

	"github.com/taskstream/taskstream/internal/domain"
)

// ErrNotFound reports a lookup for a row that does not exist. Repositories
// wrap it with the entity name, e.g. "task not found".
var ErrNotFound = errors.New("not found")

// TaskFilter narrows task listings. Zero values mean "no filter".
type TaskFilter struct {
	ProjectID string
	Assignee  string
	Status    domain.TaskStatus
	Priority  domain.TaskPriority
}

// CompletionSample is a joined view of a completed task with its effort
// numbers, used by the analytics engine for velocity and efficiency metrics.
type CompletionSample struct {
	TaskID      string
	ProjectID   string
	Assignee    string
	EstimateMin int
	LoggedMin   int
	CompletedAt time.Time
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByKey(ctx context.Context, key string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	// CountByStatus returns the number of tasks per status within a project.
	CountByStatus(ctx context.Context, projectID string) (map[domain.TaskStatus]int, error)

	// ListCompletedBetween returns completion samples for analytics,
	// optionally scoped to one project (empty projectID means all).
	ListCompletedBetween(ctx context.Context, projectID string, from, to time.Time) ([]CompletionSample, error)
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.ActivityItem) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.ActivityItem, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.ActivityItem, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListPending(ctx context.Context, limit int) ([]*domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) error
}

type SyncRunRepo interface {
	Create(ctx context.Context, r *domain.SyncRun) error
	Finish(ctx context.Context, r *domain.SyncRun) error
	ListByAdapter(ctx context.Context, adapter string, limit int) ([]*domain.SyncRun, error)
	LastSuccess(ctx context.Context, adapter string) (*domain.SyncRun, error)
}
