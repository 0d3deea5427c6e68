// Package usecase implements the daily report job: extract, hand off, report.
package usecase

import "errors"

var (
	// ErrHandoffNotFound is returned when no values were handed off for a run.
	ErrHandoffNotFound = errors.New("handoff values not found")

	// ErrRunNotFound is returned when a run cannot be found by ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunInProgress is returned when a run is triggered while another one is still executing.
	ErrRunInProgress = errors.New("a run is already in progress")
)
