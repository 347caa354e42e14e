package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueueJobMetrics records execution metadata for queue-consumed jobs.
type QueueJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	retry    *prometheus.CounterVec
}

// NewQueueJobMetrics registers the queue job metrics on the provided registerer.
func NewQueueJobMetrics(reg prometheus.Registerer) *QueueJobMetrics {
	if reg == nil {
		return &QueueJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "queue_job_duration_seconds",
		Help:    "Duration of queue job attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_job_success",
		Help: "Successful queue job attempts.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_job_failure",
		Help: "Permanently failed queue jobs.",
	}, []string{"job"})
	retry := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_job_retry",
		Help: "Queue job attempts rescheduled for retry.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure, retry)
	return &QueueJobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		retry:    retry,
	}
}

// ObserveDuration records the attempt duration for the named job.
func (q *QueueJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (q *QueueJobMetrics) IncSuccess(job string) {
	if q == nil || q.success == nil {
		return
	}
	q.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the permanent-failure counter for the named job.
func (q *QueueJobMetrics) IncFailure(job string) {
	if q == nil || q.failure == nil {
		return
	}
	q.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncRetry increments the retry counter for the named job.
func (q *QueueJobMetrics) IncRetry(job string) {
	if q == nil || q.retry == nil {
		return
	}
	q.retry.WithLabelValues(normalizeLabel(job)).Inc()
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
