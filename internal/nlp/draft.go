package nlp

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskstream/taskstream/internal/domain"
)

const dateLayout = "2006-01-02"

// TaskDraft is a structured task candidate extracted from free-form text.
// Drafts are suggestions; callers decide whether to persist them as tasks.
type TaskDraft struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Assignee    string              `json:"assignee,omitempty"`
	DueDate     string              `json:"due_date,omitempty"` // YYYY-MM-DD
	Priority    domain.TaskPriority `json:"priority,omitempty"`
	EstimateMin int                 `json:"estimate_min,omitempty"`
	Confidence  float64             `json:"confidence"`
}

// DueTime parses the draft's due date. Returns nil when unset.
func (d TaskDraft) DueTime() (*time.Time, error) {
	if d.DueDate == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, d.DueDate)
	if err != nil {
		return nil, fmt.Errorf("parsing due date %q: %w", d.DueDate, err)
	}
	return &t, nil
}

// extractionPayload is the JSON shape the model is instructed to emit.
type extractionPayload struct {
	Tasks []TaskDraft `json:"tasks"`
}

// validateExtraction is the schema validator applied to raw model output
// before any confidence filtering happens.
func validateExtraction(p extractionPayload) error {
	for i, d := range p.Tasks {
		if strings.TrimSpace(d.Title) == "" {
			return fmt.Errorf("task %d: title is required", i)
		}
		if d.Confidence < 0 || d.Confidence > 1 {
			return fmt.Errorf("task %d: confidence must be in [0,1], got %f", i, d.Confidence)
		}
		if d.Priority != "" && !domain.ValidTaskPriorities[string(d.Priority)] {
			return fmt.Errorf("task %d: unknown priority %q", i, d.Priority)
		}
		if d.EstimateMin < 0 {
			return fmt.Errorf("task %d: estimate must be >= 0", i)
		}
		if _, err := d.DueTime(); err != nil {
			return fmt.Errorf("task %d: %v", i, err)
		}
	}
	return nil
}

// classificationPayload is the JSON shape for single-task priority classification.
type classificationPayload struct {
	Priority   domain.TaskPriority `json:"priority"`
	Confidence float64             `json:"confidence"`
	Rationale  string              `json:"rationale,omitempty"`
}

func validateClassification(p classificationPayload) error {
	if !domain.ValidTaskPriorities[string(p.Priority)] {
		return fmt.Errorf("unknown priority %q", p.Priority)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("confidence must be in [0,1], got %f", p.Confidence)
	}
	return nil
}

// summaryPayload is the JSON shape for activity summarization.
type summaryPayload struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights,omitempty"`
}

func validateSummary(p summaryPayload) error {
	if strings.TrimSpace(p.Summary) == "" {
		return fmt.Errorf("summary is required")
	}
	return nil
}
