package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taskstream/taskstream/internal/db"
	"github.com/taskstream/taskstream/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo over a SQLite connection or transaction.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo.
func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

const activityColumns = `id, project_id, task_id, actor, type, message, created_at`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.ActivityItem) error {
	query := `INSERT INTO activity_items (` + activityColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	var taskID any
	if a.TaskID != nil {
		taskID = *a.TaskID
	}
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ProjectID,
		taskID,
		a.Actor,
		string(a.Type),
		a.Message,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting activity item: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.ActivityItem, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_items
		WHERE project_id = ? ORDER BY created_at DESC, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing project activity: %w", err)
	}
	defer rows.Close()
	return collectActivity(rows)
}

func (r *SQLiteActivityRepo) ListRecent(ctx context.Context, limit int) ([]*domain.ActivityItem, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_items ORDER BY created_at DESC, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent activity: %w", err)
	}
	defer rows.Close()
	return collectActivity(rows)
}

func collectActivity(rows *sql.Rows) ([]*domain.ActivityItem, error) {
	var items []*domain.ActivityItem
	for rows.Next() {
		var a domain.ActivityItem
		var taskID sql.NullString
		var typeStr, createdAtStr string
		if err := rows.Scan(&a.ID, &a.ProjectID, &taskID, &a.Actor, &typeStr, &a.Message, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning activity item: %w", err)
		}
		a.Type = domain.ActivityType(typeStr)
		if taskID.Valid {
			id := taskID.String
			a.TaskID = &id
		}
		created, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		a.CreatedAt = created
		items = append(items, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity items: %w", err)
	}
	return items, nil
}
