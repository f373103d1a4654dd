package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Assignee    string
	Status      TaskStatus
	Priority    TaskPriority
	Source      TaskSource

	// Effort tracking
	EstimateMin int
	LoggedMin   int

	// Confidence of the extraction when Source == SourceNLP, in [0,1].
	Confidence float64

	DueDate     *time.Time
	CompletedAt *time.Time
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// taskTransitions lists the allowed forward status transitions.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskTodo:       {TaskInProgress, TaskDone, TaskArchived},
	TaskInProgress: {TaskTodo, TaskInReview, TaskDone, TaskArchived},
	TaskInReview:   {TaskInProgress, TaskDone, TaskArchived},
	TaskDone:       {TaskInProgress, TaskArchived},
	TaskArchived:   {},
}

// CanTransition reports whether the task may move to the target status.
// Transitioning to the current status is always allowed (no-op).
func (t *Task) CanTransition(to TaskStatus) bool {
	if t.Status == to {
		return true
	}
	for _, allowed := range taskTransitions[t.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves the task to the target status, stamping CompletedAt on
// completion and clearing it when reopening a done task.
func (t *Task) Transition(to TaskStatus, now time.Time) error {
	if !t.CanTransition(to) {
		return fmt.Errorf("cannot transition task from %s to %s", t.Status, to)
	}
	if t.Status == to {
		return nil
	}
	if to == TaskDone {
		done := now
		t.CompletedAt = &done
	}
	if t.Status == TaskDone && to != TaskDone {
		t.CompletedAt = nil
	}
	t.Status = to
	t.UpdatedAt = now
	return nil
}

// IsTerminal reports whether the task is in a status that ends its lifecycle.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskDone || t.Status == TaskArchived
}

// Overdue reports whether the task has an elapsed due date and is not terminal.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil || t.IsTerminal() {
		return false
	}
	return now.After(*t.DueDate)
}

// Validate checks invariants that hold for every persisted task.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.ProjectID == "" {
		return fmt.Errorf("task must belong to a project")
	}
	if t.Priority != "" && !ValidTaskPriorities[string(t.Priority)] {
		return fmt.Errorf("unknown task priority %q", t.Priority)
	}
	if t.EstimateMin < 0 || t.LoggedMin < 0 {
		return fmt.Errorf("task minutes cannot be negative")
	}
	if t.Confidence < 0 || t.Confidence > 1 {
		return fmt.Errorf("task confidence must be within [0,1]")
	}
	return nil
}
