package auditlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/pkg/db/models"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/types"
)

// Actions the platform writes to the audit trail.
const (
	ActionGapAnalysisStarted        = "gap_analysis_started"
	ActionGapAnalysisSkipped        = "gap_analysis_skipped"
	ActionGapAnalysisGapsIdentified = "gap_analysis_gaps_identified"
	ActionGapAnalysisCartCreated    = "gap_analysis_cart_created"
	ActionCartApproved              = "cart_approved"
	ActionCartRejected              = "cart_rejected"
)

// TriggeredByAgent tags entries written by the workflow itself rather than a user.
const TriggeredByAgent = "agent"

// Store is the persistence surface the service writes through.
type Store interface {
	Create(ctx context.Context, entry *models.AgentAuditLog) error
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.AgentAuditLog, error)
}

// Service appends immutable workflow records. It validates only required
// fields and propagates storage failures untouched; callers decide whether
// an audit write failure aborts the surrounding workflow.
type Service struct {
	store Store
}

// NewService builds the audit writer.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("audit log store is required")
	}
	return &Service{store: store}, nil
}

// Record appends one entry and returns it.
func (s *Service) Record(ctx context.Context, reservationID uuid.UUID, action string, details types.JSONMap, triggeredBy string) (*models.AgentAuditLog, error) {
	if reservationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}
	if action == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action required")
	}
	if triggeredBy == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "triggeredBy required")
	}

	entry := &models.AgentAuditLog{
		ReservationID: reservationID,
		Action:        action,
		Details:       details,
		TriggeredBy:   triggeredBy,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append audit entry")
	}
	return entry, nil
}

// ListByReservation reads a reservation's trail back in creation order.
func (s *Service) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.AgentAuditLog, error) {
	if reservationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}
	entries, err := s.store.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}
	return entries, nil
}
