package queue

import (
	"encoding/json"
	"time"
)

// Segment names inside a queue's redis keyspace.
const (
	segmentWait    = "wait"
	segmentDelayed = "delayed"
	segmentFailed  = "failed"
)

// BackoffTypeExponential doubles the delay on every retry.
const BackoffTypeExponential = "exponential"

// Backoff describes the retry delay policy. Delay is the base delay in
// milliseconds, matching the job's wire shape.
type Backoff struct {
	Type  string `json:"type"`
	Delay int    `json:"delay"`
}

// Options configures retry behavior for a single job. Attempts is the total
// number of tries including the first one.
type Options struct {
	Attempts int     `json:"attempts"`
	Backoff  Backoff `json:"backoff"`
}

// Job is the durable unit of work parked in redis between enqueue and
// execution. AttemptsMade counts completed failed attempts.
type Job struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Data         json.RawMessage `json:"data"`
	Options      Options         `json:"options"`
	AttemptsMade int             `json:"attemptsMade"`
	EnqueuedAt   time.Time       `json:"enqueuedAt"`
}

// RetryDelay returns how long to park the job before the next attempt, given
// the number of attempts already failed. Exponential backoff doubles the base
// delay per completed attempt: 1000ms, 2000ms, 4000ms, ...
func RetryDelay(b Backoff, attemptsMade int) time.Duration {
	base := time.Duration(b.Delay) * time.Millisecond
	if base <= 0 {
		base = time.Second
	}
	if b.Type != BackoffTypeExponential {
		return base
	}
	if attemptsMade < 1 {
		attemptsMade = 1
	}
	return base << (attemptsMade - 1)
}
