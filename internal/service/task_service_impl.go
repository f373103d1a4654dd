package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskstream/taskstream/internal/db"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/repository"
)

type taskService struct {
	tasks         repository.TaskRepo
	projects      repository.ProjectRepo
	notifications repository.NotificationRepo
	uow           db.UnitOfWork
	observer      UseCaseObserver
}

func NewTaskService(
	tasks repository.TaskRepo,
	projects repository.ProjectRepo,
	notifications repository.NotificationRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		tasks:         tasks,
		projects:      projects,
		notifications: notifications,
		uow:           uow,
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "task.create", start, err, map[string]any{"project_id": t.ProjectID})
	}()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if t.Source == "" {
		t.Source = domain.SourceManual
	}
	if err = t.Validate(); err != nil {
		return err
	}

	// The project must exist; a dangling ProjectID would orphan the task.
	if _, err = s.projects.GetByID(ctx, t.ProjectID); err != nil {
		return fmt.Errorf("resolving project for task: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txActivity := repository.NewSQLiteActivityRepo(tx)

		if err := txTasks.Create(ctx, t); err != nil {
			return err
		}
		return txActivity.Create(ctx, newActivity(t.ProjectID, &t.ID, domain.ActivityTaskCreated,
			fmt.Sprintf("task %q created", t.Title), now))
	})
	return err
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	return s.tasks.List(ctx, filter)
}

func (s *taskService) Update(ctx context.Context, t *domain.Task) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "task.update", start, err, map[string]any{"task_id": t.ID})
	}()

	if err = t.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	t.UpdatedAt = now

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txActivity := repository.NewSQLiteActivityRepo(tx)

		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		return txActivity.Create(ctx, newActivity(t.ProjectID, &t.ID, domain.ActivityTaskUpdated,
			fmt.Sprintf("task %q updated", t.Title), now))
	})
	return err
}

// Transition moves a task through its status lifecycle. The status change and
// the activity entry commit together, so a feed can never show a completion
// the task table does not.
func (s *taskService) Transition(ctx context.Context, id string, to domain.TaskStatus) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "task.transition", start, err, map[string]any{"task_id": id, "to": string(to)})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txActivity := repository.NewSQLiteActivityRepo(tx)

		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from := t.Status
		now := time.Now().UTC()
		if err := t.Transition(to, now); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}

		typ := domain.ActivityTaskUpdated
		msg := fmt.Sprintf("task %q moved from %s to %s", t.Title, from, to)
		if to == domain.TaskDone {
			typ = domain.ActivityTaskCompleted
			msg = fmt.Sprintf("task %q completed", t.Title)
		}
		return txActivity.Create(ctx, newActivity(t.ProjectID, &t.ID, typ, msg, now))
	})
	return err
}

// Assign sets the assignee and queues a notification so the sync loop can
// tell them about it.
func (s *taskService) Assign(ctx context.Context, id, assignee string) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "task.assign", start, err, map[string]any{"task_id": id, "assignee": assignee})
	}()

	if assignee == "" {
		err = fmt.Errorf("assignee is required")
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txActivity := repository.NewSQLiteActivityRepo(tx)
		txNotifications := repository.NewSQLiteNotificationRepo(tx)

		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t.Assignee == assignee {
			return nil
		}
		now := time.Now().UTC()
		t.Assignee = assignee
		t.UpdatedAt = now
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}

		if err := txActivity.Create(ctx, newActivity(t.ProjectID, &t.ID, domain.ActivityTaskAssigned,
			fmt.Sprintf("task %q assigned to %s", t.Title, assignee), now)); err != nil {
			return err
		}

		return txNotifications.Create(ctx, &domain.Notification{
			ID:        uuid.New().String(),
			Channel:   domain.ChannelEmail,
			Recipient: assignee,
			Subject:   fmt.Sprintf("Task assigned: %s", t.Title),
			Body:      fmt.Sprintf("You have been assigned %q.", t.Title),
			Status:    domain.NotificationPending,
			CreatedAt: now,
		})
	})
	return err
}

// LogTime adds worked minutes to a task's logged total.
func (s *taskService) LogTime(ctx context.Context, id string, minutes int) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "task.log_time", start, err, map[string]any{"task_id": id, "minutes": minutes})
	}()

	if minutes <= 0 {
		err = fmt.Errorf("logged minutes must be positive")
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)

		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		t.LoggedMin += minutes
		t.UpdatedAt = time.Now().UTC()
		return txTasks.Update(ctx, t)
	})
	return err
}

func (s *taskService) Archive(ctx context.Context, id string) error {
	return s.tasks.Archive(ctx, id)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}
