package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/logger"
)

type pushed struct {
	key   string
	value string
}

type zadded struct {
	key    string
	score  float64
	member string
}

type fakeStore struct {
	pushes  []pushed
	zadds   []zadded
	due     []string
	zremHit map[string]int64
}

func (f *fakeStore) LPush(ctx context.Context, key string, value any) error {
	f.pushes = append(f.pushes, pushed{key: key, value: fmt.Sprint(value)})
	return nil
}

func (f *fakeStore) BRPop(ctx context.Context, timeout time.Duration, key string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	f.zadds = append(f.zadds, zadded{key: key, score: score, member: member})
	return nil
}

func (f *fakeStore) ZRangeByScoreLimit(ctx context.Context, key string, max float64, limit int) ([]string, error) {
	return f.due, nil
}

func (f *fakeStore) ZRem(ctx context.Context, key string, member string) (int64, error) {
	if f.zremHit == nil {
		return 1, nil
	}
	return f.zremHit[member], nil
}

func (f *fakeStore) QueueKey(queueName, segment string) string {
	return "ss:queue:" + queueName + ":" + segment
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testWorker(t *testing.T, s *fakeStore) *Worker {
	t.Helper()
	client, err := NewClient(s, "agent", testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	w, err := NewWorker(WorkerParams{Client: client, Logger: testLogger()})
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	return w
}

func TestRetryDelayExponential(t *testing.T) {
	b := Backoff{Type: BackoffTypeExponential, Delay: 1000}
	cases := []struct {
		attemptsMade int
		want         time.Duration
	}{
		{1, 1000 * time.Millisecond},
		{2, 2000 * time.Millisecond},
		{3, 4000 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := RetryDelay(b, tc.attemptsMade); got != tc.want {
			t.Fatalf("RetryDelay(attemptsMade=%d) = %v, want %v", tc.attemptsMade, got, tc.want)
		}
	}
}

func TestRetryDelayFixedAndDefaults(t *testing.T) {
	if got := RetryDelay(Backoff{Type: "fixed", Delay: 500}, 3); got != 500*time.Millisecond {
		t.Fatalf("fixed backoff = %v, want 500ms", got)
	}
	if got := RetryDelay(Backoff{Type: BackoffTypeExponential}, 1); got != time.Second {
		t.Fatalf("zero delay fallback = %v, want 1s", got)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions(config.QueueConfig{Attempts: 3, BackoffDelayMS: 1000})
	if opts.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", opts.Attempts)
	}
	if opts.Backoff.Type != BackoffTypeExponential || opts.Backoff.Delay != 1000 {
		t.Fatalf("unexpected backoff: %+v", opts.Backoff)
	}

	opts = DefaultOptions(config.QueueConfig{})
	if opts.Attempts != 3 || opts.Backoff.Delay != 1000 {
		t.Fatalf("zero config defaults = %+v", opts)
	}
}

func TestEnqueuePersistsJobOnWaitList(t *testing.T) {
	store := &fakeStore{}
	client, err := NewClient(store, "agent", testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	job, err := client.Enqueue(context.Background(), "inventory-gap-analysis",
		map[string]string{"reservationId": "abc"}, DefaultOptions(config.QueueConfig{}))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected a job id")
	}
	if len(store.pushes) != 1 {
		t.Fatalf("expected 1 push, got %d", len(store.pushes))
	}
	if store.pushes[0].key != "ss:queue:agent:wait" {
		t.Fatalf("unexpected wait key %q", store.pushes[0].key)
	}

	var persisted Job
	if err := json.Unmarshal([]byte(store.pushes[0].value), &persisted); err != nil {
		t.Fatalf("unmarshal persisted job: %v", err)
	}
	if persisted.Name != "inventory-gap-analysis" {
		t.Fatalf("persisted name = %q", persisted.Name)
	}
	if persisted.AttemptsMade != 0 {
		t.Fatalf("fresh job attemptsMade = %d, want 0", persisted.AttemptsMade)
	}
	var data map[string]string
	if err := json.Unmarshal(persisted.Data, &data); err != nil {
		t.Fatalf("unmarshal job data: %v", err)
	}
	if data["reservationId"] != "abc" {
		t.Fatalf("job data = %+v", data)
	}
}

func TestProcessDispatchesHandler(t *testing.T) {
	store := &fakeStore{}
	w := testWorker(t, store)

	var got Job
	w.Handle("inventory-gap-analysis", func(ctx context.Context, job Job) error {
		got = job
		return nil
	})

	job := Job{ID: "j1", Name: "inventory-gap-analysis", Data: json.RawMessage(`{}`), Options: Options{Attempts: 3}}
	w.process(context.Background(), job)

	if got.ID != "j1" {
		t.Fatalf("handler saw job %q, want j1", got.ID)
	}
	if len(store.pushes) != 0 || len(store.zadds) != 0 {
		t.Fatal("successful job must not be re-parked")
	}
}

func TestProcessIgnoresUnknownJobName(t *testing.T) {
	store := &fakeStore{}
	w := testWorker(t, store)
	w.Handle("inventory-gap-analysis", func(ctx context.Context, job Job) error {
		t.Fatal("handler must not run for other names")
		return nil
	})

	w.process(context.Background(), Job{ID: "j1", Name: "send-welcome-email"})

	if len(store.pushes) != 0 || len(store.zadds) != 0 {
		t.Fatal("unrecognized job must be dropped without side effects")
	}
}

func TestProcessSchedulesRetryWithBackoff(t *testing.T) {
	store := &fakeStore{}
	w := testWorker(t, store)
	w.Handle("inventory-gap-analysis", func(ctx context.Context, job Job) error {
		return errors.New("boom")
	})

	job := Job{
		ID:      "j1",
		Name:    "inventory-gap-analysis",
		Data:    json.RawMessage(`{}`),
		Options: Options{Attempts: 3, Backoff: Backoff{Type: BackoffTypeExponential, Delay: 1000}},
	}
	before := time.Now()
	w.process(context.Background(), job)

	if len(store.zadds) != 1 {
		t.Fatalf("expected 1 delayed entry, got %d", len(store.zadds))
	}
	entry := store.zadds[0]
	if entry.key != "ss:queue:agent:delayed" {
		t.Fatalf("unexpected delayed key %q", entry.key)
	}

	var parked Job
	if err := json.Unmarshal([]byte(entry.member), &parked); err != nil {
		t.Fatalf("unmarshal parked job: %v", err)
	}
	if parked.AttemptsMade != 1 {
		t.Fatalf("parked attemptsMade = %d, want 1", parked.AttemptsMade)
	}

	readyAt := time.UnixMilli(int64(entry.score))
	wantEarliest := before.Add(1000 * time.Millisecond)
	if readyAt.Before(wantEarliest.Add(-50*time.Millisecond)) || readyAt.After(wantEarliest.Add(5*time.Second)) {
		t.Fatalf("retry ready at %v, want around %v", readyAt, wantEarliest)
	}
	if len(store.pushes) != 0 {
		t.Fatal("retryable job must not hit the failed list")
	}
}

func TestProcessSecondRetryDoublesDelay(t *testing.T) {
	store := &fakeStore{}
	w := testWorker(t, store)
	w.Handle("inventory-gap-analysis", func(ctx context.Context, job Job) error {
		return errors.New("boom")
	})

	job := Job{
		ID:           "j1",
		Name:         "inventory-gap-analysis",
		Data:         json.RawMessage(`{}`),
		AttemptsMade: 1,
		Options:      Options{Attempts: 3, Backoff: Backoff{Type: BackoffTypeExponential, Delay: 1000}},
	}
	before := time.Now()
	w.process(context.Background(), job)

	if len(store.zadds) != 1 {
		t.Fatalf("expected 1 delayed entry, got %d", len(store.zadds))
	}
	readyAt := time.UnixMilli(int64(store.zadds[0].score))
	if readyAt.Before(before.Add(2000*time.Millisecond - 50*time.Millisecond)) {
		t.Fatalf("second retry ready at %v, want >= %v", readyAt, before.Add(2*time.Second))
	}
}

func TestProcessMarksFailedAfterFinalAttempt(t *testing.T) {
	store := &fakeStore{}
	w := testWorker(t, store)
	w.Handle("inventory-gap-analysis", func(ctx context.Context, job Job) error {
		return errors.New("boom")
	})

	job := Job{
		ID:           "j1",
		Name:         "inventory-gap-analysis",
		Data:         json.RawMessage(`{}`),
		AttemptsMade: 2,
		Options:      Options{Attempts: 3, Backoff: Backoff{Type: BackoffTypeExponential, Delay: 1000}},
	}
	w.process(context.Background(), job)

	if len(store.zadds) != 0 {
		t.Fatal("exhausted job must not be rescheduled")
	}
	if len(store.pushes) != 1 {
		t.Fatalf("expected 1 failed-list push, got %d", len(store.pushes))
	}
	if store.pushes[0].key != "ss:queue:agent:failed" {
		t.Fatalf("unexpected failed key %q", store.pushes[0].key)
	}
	var failed Job
	if err := json.Unmarshal([]byte(store.pushes[0].value), &failed); err != nil {
		t.Fatalf("unmarshal failed job: %v", err)
	}
	if failed.AttemptsMade != 3 {
		t.Fatalf("failed attemptsMade = %d, want 3", failed.AttemptsMade)
	}
}

func TestPromoteDelayedRequeuesOnlyClaimedJobs(t *testing.T) {
	store := &fakeStore{
		due:     []string{"job-a", "job-b"},
		zremHit: map[string]int64{"job-a": 1, "job-b": 0},
	}
	w := testWorker(t, store)

	if err := w.promoteDelayed(context.Background()); err != nil {
		t.Fatalf("promoteDelayed: %v", err)
	}
	if len(store.pushes) != 1 {
		t.Fatalf("expected 1 requeued job, got %d", len(store.pushes))
	}
	if store.pushes[0].key != "ss:queue:agent:wait" || store.pushes[0].value != "job-a" {
		t.Fatalf("unexpected requeue %+v", store.pushes[0])
	}
}
