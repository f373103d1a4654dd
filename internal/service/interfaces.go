package service

import (
	"context"

	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/repository"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByKey(ctx context.Context, key string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Transition(ctx context.Context, id string, to domain.TaskStatus) error
	Assign(ctx context.Context, id, assignee string) error
	LogTime(ctx context.Context, id string, minutes int) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ActivityService interface {
	Record(ctx context.Context, a *domain.ActivityItem) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.ActivityItem, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.ActivityItem, error)
}

type NotificationService interface {
	Queue(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListPending(ctx context.Context, limit int) ([]*domain.Notification, error)
}
