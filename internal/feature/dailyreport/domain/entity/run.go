// Package entity defines the domain models for the dailyreport feature.
package entity

import "time"

// RunStatus is the lifecycle state of a scheduled run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one execution of the daily report job.
type Run struct {
	ID         string
	Symbol     string
	AsOfDate   string // YYYYMMDD
	Status     RunStatus
	Attempts   int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Done reports whether the run has reached a terminal state.
func (r Run) Done() bool {
	return r.Status == RunStatusSucceeded || r.Status == RunStatusFailed
}
