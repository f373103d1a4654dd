package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestTaskIsTerminal(t *testing.T) {
	cases := []struct {
		status   TaskStatus
		terminal bool
	}{
		{TaskTodo, false},
		{TaskInProgress, false},
		{TaskInReview, false},
		{TaskDone, true},
		{TaskArchived, true},
	}
	for _, tc := range cases {
		task := &Task{Status: tc.status}
		assert.Equal(t, tc.terminal, task.IsTerminal(), "status=%s", tc.status)
	}
}

func TestTransition_TodoToDone(t *testing.T) {
	task := &Task{Status: TaskTodo}
	require.NoError(t, task.Transition(TaskDone, testNow))
	assert.Equal(t, TaskDone, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
	assert.Equal(t, testNow, task.UpdatedAt)
}

func TestTransition_ReopenClearsCompletedAt(t *testing.T) {
	earlier := testNow.Add(-time.Hour)
	task := &Task{Status: TaskDone, CompletedAt: &earlier}
	require.NoError(t, task.Transition(TaskInProgress, testNow))
	assert.Equal(t, TaskInProgress, task.Status)
	assert.Nil(t, task.CompletedAt)
}

func TestTransition_SameStatusIsNoop(t *testing.T) {
	task := &Task{Status: TaskInProgress, UpdatedAt: testNow.Add(-time.Hour)}
	require.NoError(t, task.Transition(TaskInProgress, testNow))
	assert.Equal(t, testNow.Add(-time.Hour), task.UpdatedAt, "no-op transition should not touch UpdatedAt")
}

func TestTransition_ArchivedIsFinal(t *testing.T) {
	task := &Task{Status: TaskArchived}
	for _, to := range []TaskStatus{TaskTodo, TaskInProgress, TaskInReview, TaskDone} {
		err := task.Transition(to, testNow)
		require.Error(t, err, "archived -> %s should be rejected", to)
		assert.Equal(t, TaskArchived, task.Status)
	}
}

func TestTransition_TodoToInReviewRejected(t *testing.T) {
	task := &Task{Status: TaskTodo}
	err := task.Transition(TaskInReview, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot transition")
}

func TestTaskOverdue(t *testing.T) {
	due := testNow.Add(-24 * time.Hour)
	cases := []struct {
		name    string
		task    Task
		overdue bool
	}{
		{"no due date", Task{Status: TaskTodo}, false},
		{"past due, open", Task{Status: TaskTodo, DueDate: &due}, true},
		{"past due, done", Task{Status: TaskDone, DueDate: &due}, false},
		{"past due, archived", Task{Status: TaskArchived, DueDate: &due}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overdue, tc.task.Overdue(testNow))
		})
	}
}

func TestTaskValidate(t *testing.T) {
	valid := Task{ProjectID: "p1", Title: "Write release notes", Priority: PriorityHigh, Confidence: 0.9}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		task Task
	}{
		{"missing title", Task{ProjectID: "p1"}},
		{"missing project", Task{Title: "x"}},
		{"bad priority", Task{ProjectID: "p1", Title: "x", Priority: "asap"}},
		{"negative minutes", Task{ProjectID: "p1", Title: "x", EstimateMin: -5}},
		{"confidence out of range", Task{ProjectID: "p1", Title: "x", Confidence: 1.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.task.Validate())
		})
	}
}
