package scheduler

import "errors"

var (
	// ErrSweeperNotRunning is returned when triggering a sweep on a stopped sweeper
	ErrSweeperNotRunning = errors.New("expiration sweeper is not running")

	// ErrSweepInProgress is returned when a manual trigger overlaps a running sweep
	ErrSweepInProgress = errors.New("expiration sweep already in progress")
)
