package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taskstream/taskstream/internal/db"
	"github.com/taskstream/taskstream/internal/domain"
)

// SQLiteNotificationRepo implements NotificationRepo over a SQLite connection or transaction.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

// NewSQLiteNotificationRepo creates a new SQLiteNotificationRepo.
func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

const notificationColumns = `id, channel, recipient, subject, body, status, attempts, last_error, created_at, sent_at`

func (r *SQLiteNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (` + notificationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		string(n.Channel),
		n.Recipient,
		n.Subject,
		n.Body,
		string(n.Status),
		n.Attempts,
		n.LastError,
		n.CreatedAt.Format(time.RFC3339),
		nullableTimeToString(n.SentAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	return scanNotification(row)
}

func (r *SQLiteNotificationRepo) ListPending(ctx context.Context, limit int) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE status = 'pending' ORDER BY created_at LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pending notifications: %w", err)
	}
	defer rows.Close()

	var items []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return items, nil
}

func (r *SQLiteNotificationRepo) Update(ctx context.Context, n *domain.Notification) error {
	query := `UPDATE notifications SET status = ?, attempts = ?, last_error = ?, sent_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(n.Status),
		n.Attempts,
		n.LastError,
		nullableTimeToString(n.SentAt, time.RFC3339),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating notification: %w", err)
	}
	return nil
}

func scanNotification(s scanner) (*domain.Notification, error) {
	var n domain.Notification
	var channelStr, statusStr, createdAtStr string
	var sentAtStr sql.NullString

	err := s.Scan(
		&n.ID, &channelStr, &n.Recipient, &n.Subject, &n.Body,
		&statusStr, &n.Attempts, &n.LastError, &createdAtStr, &sentAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("notification %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning notification: %w", err)
	}

	n.Channel = domain.Channel(channelStr)
	n.Status = domain.NotificationStatus(statusStr)

	created, parseErr := time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	n.CreatedAt = created
	n.SentAt = parseNullableTime(sentAtStr, time.RFC3339)

	return &n, nil
}
