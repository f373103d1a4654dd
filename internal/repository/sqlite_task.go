package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taskstream/taskstream/internal/db"
	"github.com/taskstream/taskstream/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo over a SQLite connection or transaction.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, project_id, title, description, assignee, status, priority, source,
	estimate_min, logged_min, confidence, due_date, completed_at, archived_at, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Description,
		t.Assignee,
		string(t.Status),
		string(t.Priority),
		string(t.Source),
		t.EstimateMin,
		t.LoggedMin,
		t.Confidence,
		nullableTimeToString(t.DueDate, dateLayout),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		nullableTimeToString(t.ArchivedAt, time.RFC3339),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *SQLiteTaskRepo) List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error) {
	var conds []string
	var args []any
	if filter.ProjectID != "" {
		conds = append(conds, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Assignee != "" {
		conds = append(conds, "assignee = ?")
		args = append(args, filter.Assignee)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, string(filter.Priority))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, assignee = ?, status = ?, priority = ?, source = ?,
		estimate_min = ?, logged_min = ?, confidence = ?, due_date = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.Assignee,
		string(t.Status),
		string(t.Priority),
		string(t.Source),
		t.EstimateMin,
		t.LoggedMin,
		t.Confidence,
		nullableTimeToString(t.DueDate, dateLayout),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Archive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE tasks SET status = 'archived', archived_at = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, now, now, id); err != nil {
		return fmt.Errorf("archiving task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) CountByStatus(ctx context.Context, projectID string) (map[domain.TaskStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE project_id = ? GROUP BY status`, projectID)
	if err != nil {
		return nil, fmt.Errorf("counting tasks by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[domain.TaskStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}
	return counts, nil
}

func (r *SQLiteTaskRepo) ListCompletedBetween(ctx context.Context, projectID string, from, to time.Time) ([]CompletionSample, error) {
	query := `SELECT id, project_id, assignee, estimate_min, logged_min, completed_at
		FROM tasks
		WHERE status = 'done' AND completed_at IS NOT NULL AND completed_at >= ? AND completed_at < ?`
	args := []any{from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339)}
	if projectID != "" {
		query += ` AND project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY completed_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing completed tasks: %w", err)
	}
	defer rows.Close()

	var samples []CompletionSample
	for rows.Next() {
		var s CompletionSample
		var completedAtStr string
		if err := rows.Scan(&s.TaskID, &s.ProjectID, &s.Assignee, &s.EstimateMin, &s.LoggedMin, &completedAtStr); err != nil {
			return nil, fmt.Errorf("scanning completion sample: %w", err)
		}
		s.CompletedAt, err = time.Parse(time.RFC3339, completedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completion samples: %w", err)
	}
	return samples, nil
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var statusStr, priorityStr, sourceStr, createdAtStr, updatedAtStr string
	var dueDateStr, completedAtStr, archivedAtStr sql.NullString

	err := s.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Assignee,
		&statusStr, &priorityStr, &sourceStr,
		&t.EstimateMin, &t.LoggedMin, &t.Confidence,
		&dueDateStr, &completedAtStr, &archivedAtStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.TaskStatus(statusStr)
	t.Priority = domain.TaskPriority(priorityStr)
	t.Source = domain.TaskSource(sourceStr)

	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	t.DueDate = parseNullableTime(dueDateStr, dateLayout)
	t.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)
	t.ArchivedAt = parseNullableTime(archivedAtStr, time.RFC3339)

	return &t, nil
}
