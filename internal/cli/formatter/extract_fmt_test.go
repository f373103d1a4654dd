package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskstream/taskstream/internal/domain"
	"github.com/taskstream/taskstream/internal/nlp"
)

func TestFormatExtraction_NoDrafts(t *testing.T) {
	out := FormatExtraction(&nlp.Result{})
	assert.Contains(t, out, "no tasks found")
}

func TestFormatExtraction_RendersDrafts(t *testing.T) {
	result := &nlp.Result{
		Drafts: []nlp.TaskDraft{
			{
				Title:       "Review the budget",
				Description: "Q3 numbers before the board meeting",
				Assignee:    "helen",
				DueDate:     "2026-09-01",
				Priority:    domain.PriorityHigh,
				Confidence:  0.92,
			},
			{
				Title:      "Book the venue",
				Priority:   domain.PriorityLow,
				Confidence: 0.71,
			},
		},
		Discarded: 1,
	}

	out := FormatExtraction(result)

	assert.Contains(t, out, "Found 2 task(s)")
	assert.Contains(t, out, "1.")
	assert.Contains(t, out, "Review the budget")
	assert.Contains(t, out, "Q3 numbers before the board meeting")
	assert.Contains(t, out, "@helen")
	assert.Contains(t, out, "due 2026-09-01")
	assert.Contains(t, out, "confidence 0.92")
	assert.Contains(t, out, "2.")
	assert.Contains(t, out, "Book the venue")
	assert.Contains(t, out, "1 low-confidence draft(s) discarded")
}

func TestPriorityBadge(t *testing.T) {
	for _, p := range []string{"urgent", "high", "medium", "low"} {
		assert.Contains(t, priorityBadge(p), p)
	}
	// Unknown priorities fall back to the medium badge.
	assert.Contains(t, priorityBadge(""), "medium")
}
