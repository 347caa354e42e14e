package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/logger"
)

// store is the slice of the redis client the queue rides on.
type store interface {
	LPush(ctx context.Context, key string, value any) error
	BRPop(ctx context.Context, timeout time.Duration, key string) (string, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRangeByScoreLimit(ctx context.Context, key string, max float64, limit int) ([]string, error)
	ZRem(ctx context.Context, key string, member string) (int64, error)
	QueueKey(queueName, segment string) string
	Ping(ctx context.Context) error
}

// Client enqueues durable jobs onto a named redis-backed queue. It is
// constructed explicitly and shared by injection; it does not own the redis
// connection's lifecycle.
type Client struct {
	store store
	name  string
	logg  *logger.Logger
}

// NewClient builds a queue client for the named queue.
func NewClient(s store, name string, logg *logger.Logger) (*Client, error) {
	if s == nil {
		return nil, errors.New("queue store is required")
	}
	if name == "" {
		return nil, errors.New("queue name is required")
	}
	return &Client{store: s, name: name, logg: logg}, nil
}

// DefaultOptions maps the configured retry policy into per-job options.
func DefaultOptions(cfg config.QueueConfig) Options {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := cfg.BackoffDelayMS
	if delay <= 0 {
		delay = 1000
	}
	return Options{
		Attempts: attempts,
		Backoff:  Backoff{Type: BackoffTypeExponential, Delay: delay},
	}
}

// Enqueue durably persists a job and returns its handle immediately; it never
// waits for execution.
func (c *Client) Enqueue(ctx context.Context, name string, data any, opts Options) (*Job, error) {
	if name == "" {
		return nil, errors.New("job name is required")
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling job data: %w", err)
	}

	job := Job{
		ID:         uuid.NewString(),
		Name:       name,
		Data:       payload,
		Options:    opts,
		EnqueuedAt: time.Now().UTC(),
	}

	raw, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshaling job: %w", err)
	}

	if err := c.store.LPush(ctx, c.waitKey(), string(raw)); err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", name, err)
	}

	if c.logg != nil {
		logCtx := c.logg.WithFields(ctx, map[string]any{
			"job_id":   job.ID,
			"job_name": job.Name,
			"queue":    c.name,
		})
		c.logg.Info(logCtx, "job enqueued")
	}
	return &job, nil
}

// Ping verifies the backing store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func (c *Client) waitKey() string {
	return c.store.QueueKey(c.name, segmentWait)
}

func (c *Client) delayedKey() string {
	return c.store.QueueKey(c.name, segmentDelayed)
}

func (c *Client) failedKey() string {
	return c.store.QueueKey(c.name, segmentFailed)
}
