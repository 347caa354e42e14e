package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/staysupply/staysupply-backend/pkg/logger"
	"github.com/staysupply/staysupply-backend/pkg/metrics"
	redispkg "github.com/staysupply/staysupply-backend/pkg/redis"
)

const promoteBatchSize = 50

// HandlerFunc executes one job attempt. A returned error fails the attempt
// and hands the job back to the retry machinery.
type HandlerFunc func(ctx context.Context, job Job) error

// WorkerParams configure a queue consumer.
type WorkerParams struct {
	Client *Client
	Logger *logger.Logger
	// Metrics is optional; a nil collector disables instrumentation.
	Metrics *metrics.QueueJobMetrics
	// JobTimeout bounds a single attempt so a hung handler cannot pin the
	// worker slot forever. Zero disables the deadline.
	JobTimeout time.Duration
	// PollInterval is the BRPOP blocking window; it also paces delayed-job
	// promotion while the queue is idle.
	PollInterval time.Duration
}

// Worker is a long-lived consumer loop. It processes one job at a time;
// horizontal throughput comes from running more instances, and nothing
// deduplicates concurrent jobs for the same aggregate.
type Worker struct {
	client       *Client
	logg         *logger.Logger
	handlers     map[string]HandlerFunc
	metrics      *metrics.QueueJobMetrics
	jobTimeout   time.Duration
	pollInterval time.Duration
}

// NewWorker builds a worker bound to the provided queue client.
func NewWorker(params WorkerParams) (*Worker, error) {
	if params.Client == nil {
		return nil, errors.New("queue client is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	pollInterval := params.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Worker{
		client:       params.Client,
		logg:         params.Logger,
		handlers:     make(map[string]HandlerFunc),
		metrics:      params.Metrics,
		jobTimeout:   params.JobTimeout,
		pollInterval: pollInterval,
	}, nil
}

// Handle registers the handler invoked for jobs with the given name.
// Jobs with no registered handler are acknowledged as no-ops.
func (w *Worker) Handle(name string, fn HandlerFunc) {
	if name == "" || fn == nil {
		return
	}
	w.handlers[name] = fn
}

// Run consumes jobs until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	w.logg.Info(ctx, "queue worker started")

	for {
		select {
		case <-ctx.Done():
			w.logg.Info(ctx, "queue worker context canceled")
			return ctx.Err()
		default:
		}

		if err := w.promoteDelayed(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logg.Error(ctx, "promoting delayed jobs failed", err)
		}

		raw, err := w.client.store.BRPop(ctx, w.pollInterval, w.client.waitKey())
		if err != nil {
			if errors.Is(err, redispkg.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logg.Error(ctx, "dequeue failed", err)
			sleepCtx(ctx, w.pollInterval)
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			w.logg.Error(ctx, "discarding undecodable job payload", err)
			continue
		}

		w.process(ctx, job)
	}
}

// process runs one attempt and applies the retry/backoff policy on failure.
func (w *Worker) process(ctx context.Context, job Job) {
	jobCtx := w.logg.WithJobID(ctx, job.ID)
	jobCtx = w.logg.WithFields(jobCtx, map[string]any{
		"job_name": job.Name,
		"attempt":  job.AttemptsMade + 1,
	})

	handler, ok := w.handlers[job.Name]
	if !ok {
		w.logg.Debug(jobCtx, "ignoring job with unrecognized name")
		return
	}

	attemptCtx := jobCtx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(jobCtx, w.jobTimeout)
		defer cancel()
	}

	w.logg.Info(jobCtx, "job attempt started")
	start := time.Now()
	err := handler(attemptCtx, job)
	elapsed := time.Since(start)
	jobCtx = w.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
	w.metrics.ObserveDuration(job.Name, elapsed)

	if err == nil {
		w.metrics.IncSuccess(job.Name)
		w.logg.Info(jobCtx, "job completed")
		return
	}

	job.AttemptsMade++
	if job.AttemptsMade < job.Options.Attempts {
		delay := RetryDelay(job.Options.Backoff, job.AttemptsMade)
		if scheduleErr := w.scheduleRetry(ctx, job, delay); scheduleErr != nil {
			w.logg.Error(jobCtx, "scheduling retry failed", scheduleErr)
			return
		}
		w.metrics.IncRetry(job.Name)
		retryCtx := w.logg.WithField(jobCtx, "retry_in_ms", delay.Milliseconds())
		w.logg.Warn(retryCtx, fmt.Sprintf("job attempt failed: %v", err))
		return
	}

	if failErr := w.markFailed(ctx, job); failErr != nil {
		w.logg.Error(jobCtx, "recording permanent failure failed", failErr)
	}
	w.metrics.IncFailure(job.Name)
	w.logg.Error(jobCtx, "job permanently failed after exhausting attempts", err)
}

func (w *Worker) scheduleRetry(ctx context.Context, job Job, delay time.Duration) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshaling retry job: %w", err)
	}
	readyAt := time.Now().Add(delay)
	return w.client.store.ZAdd(ctx, w.client.delayedKey(), float64(readyAt.UnixMilli()), string(raw))
}

func (w *Worker) markFailed(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshaling failed job: %w", err)
	}
	return w.client.store.LPush(ctx, w.client.failedKey(), string(raw))
}

// promoteDelayed moves due retries from the delayed set back onto the wait
// list. ZRem arbitrates between concurrent workers: only the instance that
// actually removed the member re-enqueues it.
func (w *Worker) promoteDelayed(ctx context.Context) error {
	now := float64(time.Now().UnixMilli())
	due, err := w.client.store.ZRangeByScoreLimit(ctx, w.client.delayedKey(), now, promoteBatchSize)
	if err != nil {
		return err
	}
	for _, member := range due {
		removed, err := w.client.store.ZRem(ctx, w.client.delayedKey(), member)
		if err != nil {
			return err
		}
		if removed == 0 {
			continue
		}
		if err := w.client.store.LPush(ctx, w.client.waitKey(), member); err != nil {
			return err
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
