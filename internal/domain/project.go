package domain

import (
	"fmt"
	"regexp"
	"time"
)

var projectKeyPattern = regexp.MustCompile(`^[A-Z]{2,6}[0-9]{0,4}$`)

type Project struct {
	ID          string
	Key         string
	Name        string
	Description string
	Owner       string
	StartDate   time.Time
	TargetDate  *time.Time
	Status      ProjectStatus
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateKey checks that Key is non-empty and matches the required format:
// 2-6 uppercase letters with up to 4 trailing digits (e.g. TS, INFRA01).
func (p *Project) ValidateKey() error {
	if p.Key == "" {
		return fmt.Errorf("project key is required")
	}
	if !projectKeyPattern.MatchString(p.Key) {
		return fmt.Errorf("project key %q must be 2-6 uppercase letters with up to 4 trailing digits (e.g. TS01)", p.Key)
	}
	return nil
}

// DisplayKey returns the best short identifier for display.
// It prefers Key; if empty it truncates ID to 8 characters.
func (p *Project) DisplayKey() string {
	if p.Key != "" {
		return p.Key
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Overdue reports whether the project has passed its target date without
// reaching a terminal status.
func (p *Project) Overdue(now time.Time) bool {
	if p.TargetDate == nil {
		return false
	}
	if p.Status == ProjectDone || p.Status == ProjectArchived {
		return false
	}
	return now.After(*p.TargetDate)
}
