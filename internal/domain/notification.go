package domain

import "time"

// Notification is an outbound message queued for delivery through one of the
// configured integration channels.
type Notification struct {
	ID        string
	Channel   Channel
	Recipient string
	Subject   string
	Body      string
	Status    NotificationStatus
	Attempts  int
	LastError string
	CreatedAt time.Time
	SentAt    *time.Time
}

// MarkSent records a successful delivery.
func (n *Notification) MarkSent(now time.Time) {
	n.Status = NotificationSent
	n.SentAt = &now
	n.LastError = ""
}

// MarkFailed records a failed delivery attempt.
func (n *Notification) MarkFailed(err error, now time.Time) {
	n.Status = NotificationFailed
	n.Attempts++
	if err != nil {
		n.LastError = err.Error()
	}
}
