package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/queue"
)

// JobData is the wire payload of an inventory gap analysis job.
type JobData struct {
	ReservationID string `json:"reservationId"`
}

// enqueuer is the queue slice the trigger needs.
type enqueuer interface {
	Enqueue(ctx context.Context, name string, data any, opts queue.Options) (*queue.Job, error)
}

// reservationChecker verifies the reservation exists before a job is accepted.
type reservationChecker interface {
	ReservationExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Trigger accepts gap analysis requests and hands them to the queue. The
// actual analysis runs in the worker; Trigger only admits and enqueues.
type Trigger struct {
	queue   enqueuer
	store   reservationChecker
	options queue.Options
}

// NewTrigger builds the trigger service.
func NewTrigger(q enqueuer, store reservationChecker, options queue.Options) (*Trigger, error) {
	if q == nil {
		return nil, fmt.Errorf("queue client is required")
	}
	if store == nil {
		return nil, fmt.Errorf("reservation store is required")
	}
	return &Trigger{queue: q, store: store, options: options}, nil
}

// Enqueue admits a gap analysis job for the reservation and returns the job
// handle without waiting for execution. Duplicate triggers are permitted;
// each run produces its own suggested cart.
func (t *Trigger) Enqueue(ctx context.Context, reservationID uuid.UUID) (*queue.Job, error) {
	exists, err := t.store.ReservationExists(ctx, reservationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check reservation")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("reservation %s not found", reservationID))
	}

	job, err := t.queue.Enqueue(ctx, JobInventoryGapAnalysis, JobData{ReservationID: reservationID.String()}, t.options)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enqueue gap analysis")
	}
	return job, nil
}
