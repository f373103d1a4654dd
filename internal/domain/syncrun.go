package domain

import "time"

// SyncRun records one execution of the background sync loop for an adapter.
type SyncRun struct {
	ID         string
	Adapter    string
	StartedAt  time.Time
	FinishedAt *time.Time
	Success    bool
	SentCount  int
	Error      string
}
