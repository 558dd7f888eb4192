package scheduler

import "context"

// Job is a unit of work executed by the worker pool.
type Job interface {
	// Execute runs the job. The context carries the job timeout.
	Execute(ctx context.Context) error

	// AccountID returns the bank account this job operates on, for logging.
	AccountID() string

	// Description returns a human-readable description of the job.
	Description() string
}
