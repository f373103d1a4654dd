package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/repository"
)

type activityService struct {
	activity repository.ActivityRepo
}

func NewActivityService(activity repository.ActivityRepo) ActivityService {
	return &activityService{activity: activity}
}

func (s *activityService) Record(ctx context.Context, a *domain.ActivityItem) error {
	if a.ProjectID == "" {
		return fmt.Errorf("activity must belong to a project")
	}
	if a.Message == "" {
		return fmt.Errorf("activity message is required")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Actor == "" {
		a.Actor = "system"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return s.activity.Create(ctx, a)
}

func (s *activityService) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.ActivityItem, error) {
	return s.activity.ListByProject(ctx, projectID, limit)
}

func (s *activityService) ListRecent(ctx context.Context, limit int) ([]*domain.ActivityItem, error) {
	return s.activity.ListRecent(ctx, limit)
}
