package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taskstream/taskstream/internal/db"
	"github.com/taskstream/taskstream/internal/domain"
)

// SQLiteSyncRunRepo implements SyncRunRepo over a SQLite connection or transaction.
type SQLiteSyncRunRepo struct {
	db db.DBTX
}

// NewSQLiteSyncRunRepo creates a new SQLiteSyncRunRepo.
func NewSQLiteSyncRunRepo(conn db.DBTX) *SQLiteSyncRunRepo {
	return &SQLiteSyncRunRepo{db: conn}
}

const syncRunColumns = `id, adapter, started_at, finished_at, success, sent_count, error`

func (r *SQLiteSyncRunRepo) Create(ctx context.Context, run *domain.SyncRun) error {
	query := `INSERT INTO sync_runs (` + syncRunColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Adapter,
		run.StartedAt.Format(time.RFC3339),
		nullableTimeToString(run.FinishedAt, time.RFC3339),
		boolToInt(run.Success),
		run.SentCount,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting sync run: %w", err)
	}
	return nil
}

func (r *SQLiteSyncRunRepo) Finish(ctx context.Context, run *domain.SyncRun) error {
	query := `UPDATE sync_runs SET finished_at = ?, success = ?, sent_count = ?, error = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(run.FinishedAt, time.RFC3339),
		boolToInt(run.Success),
		run.SentCount,
		run.Error,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing sync run: %w", err)
	}
	return nil
}

func (r *SQLiteSyncRunRepo) ListByAdapter(ctx context.Context, adapter string, limit int) ([]*domain.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs
		WHERE adapter = ? ORDER BY started_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, adapter, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}
	return runs, nil
}

func (r *SQLiteSyncRunRepo) LastSuccess(ctx context.Context, adapter string) (*domain.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs
		WHERE adapter = ? AND success = 1 ORDER BY started_at DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, adapter)
	run, err := scanSyncRun(row)
	if err != nil {
		if err == errSyncRunNotFound {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}

var errSyncRunNotFound = fmt.Errorf("sync run %w", ErrNotFound)

func scanSyncRun(s scanner) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var startedAtStr string
	var finishedAtStr sql.NullString
	var successInt int

	err := s.Scan(
		&run.ID, &run.Adapter, &startedAtStr, &finishedAtStr,
		&successInt, &run.SentCount, &run.Error,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errSyncRunNotFound
		}
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}

	run.Success = intToBool(successInt)

	started, parseErr := time.Parse(time.RFC3339, startedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing started_at: %w", parseErr)
	}
	run.StartedAt = started
	run.FinishedAt = parseNullableTime(finishedAtStr, time.RFC3339)

	return &run, nil
}
