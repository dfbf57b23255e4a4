package queue

import (
	"context"
	"time"
)

// MessageInterface is what the worker needs from a delivery: settle it and
// read its job. Tests implement this in place of a live channel.
type MessageInterface interface {
	Ack() error
	Nack(requeue bool) error
	GetJob() *Job
}

// JobQueue carries recurrence jobs between the API server and the worker.
type JobQueue interface {
	// Enqueue publishes a job. The API calls this when a recurring
	// activity is completed; the worker's sweep ticker calls it too.
	Enqueue(ctx context.Context, job *Job) error

	// Consume starts delivering jobs. prefetchCount bounds unacked
	// deliveries per consumer; the caller settles each message and both
	// channels close when ctx is cancelled or the connection drops.
	Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error)

	// Close tears down the broker connection.
	Close() error

	// HealthCheck verifies the broker connection is usable.
	HealthCheck(ctx context.Context) error
}

// DLQPurger purges dead-lettered messages older than a retention window.
type DLQPurger interface {
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error)
}
