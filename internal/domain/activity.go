package domain

import "time"

// ActivityItem is a single entry in a project's activity feed.
type ActivityItem struct {
	ID        string
	ProjectID string
	TaskID    *string
	Actor     string
	Type      ActivityType
	Message   string
	CreatedAt time.Time
}
