package formatter

import (
	"fmt"
	"strings"

	"github.com/taskstream/taskstream/internal/nlp"
)

// FormatExtraction renders the drafts found by "taskstream extract".
func FormatExtraction(result *nlp.Result) string {
	var b strings.Builder
	if len(result.Drafts) == 0 {
		b.WriteString(StyleDim.Render("no tasks found") + "\n")
	} else {
		b.WriteString(StyleHeader.Render(fmt.Sprintf("Found %d task(s)", len(result.Drafts))) + "\n\n")
	}

	for i, d := range result.Drafts {
		b.WriteString(fmt.Sprintf("%s %s\n",
			StyleBlue.Render(fmt.Sprintf("%d.", i+1)),
			StyleBold.Render(d.Title)))
		if d.Description != "" {
			b.WriteString("   " + StyleFg.Render(d.Description) + "\n")
		}
		meta := []string{priorityBadge(string(d.Priority))}
		if d.Assignee != "" {
			meta = append(meta, "@"+d.Assignee)
		}
		if d.DueDate != "" {
			meta = append(meta, "due "+d.DueDate)
		}
		meta = append(meta, fmt.Sprintf("confidence %.2f", d.Confidence))
		b.WriteString("   " + StyleDim.Render(strings.Join(meta, "  ")) + "\n")
	}

	if result.Discarded > 0 {
		b.WriteString("\n" + StyleDim.Render(fmt.Sprintf("%d low-confidence draft(s) discarded", result.Discarded)) + "\n")
	}
	return b.String()
}

func priorityBadge(p string) string {
	switch p {
	case "urgent":
		return StyleRed.Render("urgent")
	case "high":
		return StyleYellow.Render("high")
	case "low":
		return StyleDim.Render("low")
	default:
		return StyleBlue.Render("medium")
	}
}
