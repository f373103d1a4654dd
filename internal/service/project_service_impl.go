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

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "project.create", start, err, map[string]any{"key": p.Key})
	}()

	if err = p.ValidateKey(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.StartDate.IsZero() {
		p.StartDate = now
	}
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txActivity := repository.NewSQLiteActivityRepo(tx)

		if err := txProjects.Create(ctx, p); err != nil {
			return err
		}
		return txActivity.Create(ctx, newActivity(p.ID, nil, domain.ActivityProjectCreated,
			fmt.Sprintf("project %s created", p.DisplayKey()), now))
	})
	return err
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByKey(ctx context.Context, key string) (*domain.Project, error) {
	return s.projects.GetByKey(ctx, key)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "project.update", start, err, map[string]any{"project_id": p.ID})
	}()

	if err = p.ValidateKey(); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.UpdatedAt = now

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txActivity := repository.NewSQLiteActivityRepo(tx)

		if err := txProjects.Update(ctx, p); err != nil {
			return err
		}
		return txActivity.Create(ctx, newActivity(p.ID, nil, domain.ActivityProjectUpdated,
			fmt.Sprintf("project %s updated", p.DisplayKey()), now))
	})
	return err
}

func (s *projectService) Archive(ctx context.Context, id string) error {
	return s.projects.Archive(ctx, id)
}

func (s *projectService) Unarchive(ctx context.Context, id string) error {
	return s.projects.Unarchive(ctx, id)
}

// Delete removes a project. Unless force is set, the project must already be
// archived so that accidental deletion of live work is impossible.
func (s *projectService) Delete(ctx context.Context, id string, force bool) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "project.delete", start, err, map[string]any{"project_id": id, "force": force})
	}()

	if !force {
		p, getErr := s.projects.GetByID(ctx, id)
		if getErr != nil {
			err = getErr
			return err
		}
		if p.Status != domain.ProjectArchived {
			err = fmt.Errorf("project must be archived before deletion (use force to override)")
			return err
		}
	}
	err = s.projects.Delete(ctx, id)
	return err
}

func newActivity(projectID string, taskID *string, typ domain.ActivityType, message string, now time.Time) *domain.ActivityItem {
	return &domain.ActivityItem{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		TaskID:    taskID,
		Actor:     "system",
		Type:      typ,
		Message:   message,
		CreatedAt: now,
	}
}
