// Package service defines cross-package options and contracts shared by the
// decision engine's collaborators.
package service

import "time"

// RetryOptions configures retry behavior for operations that may fail
// transiently, such as calls to the extraction service.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
