package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/repository"
)

var validChannels = map[domain.Channel]bool{
	domain.ChannelSlack: true,
	domain.ChannelJira:  true,
	domain.ChannelEmail: true,
}

type notificationService struct {
	notifications repository.NotificationRepo
}

func NewNotificationService(notifications repository.NotificationRepo) NotificationService {
	return &notificationService{notifications: notifications}
}

// Queue enqueues a notification for the background sync loop to deliver.
func (s *notificationService) Queue(ctx context.Context, n *domain.Notification) error {
	if !validChannels[n.Channel] {
		return fmt.Errorf("unknown notification channel %q", n.Channel)
	}
	if n.Recipient == "" {
		return fmt.Errorf("notification recipient is required")
	}
	if n.Body == "" {
		return fmt.Errorf("notification body is required")
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.Status = domain.NotificationPending
	n.CreatedAt = time.Now().UTC()
	return s.notifications.Create(ctx, n)
}

func (s *notificationService) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return s.notifications.GetByID(ctx, id)
}

func (s *notificationService) ListPending(ctx context.Context, limit int) ([]*domain.Notification, error) {
	return s.notifications.ListPending(ctx, limit)
}
