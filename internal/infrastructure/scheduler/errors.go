package scheduler

import "errors"

// ErrSweepInProgress is returned when another instance holds the sweep lock
var ErrSweepInProgress = errors.New("balance sweep already in progress")
