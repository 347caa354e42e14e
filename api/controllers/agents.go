package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/api/responses"
	"github.com/staysupply/staysupply-backend/api/validators"
	"github.com/staysupply/staysupply-backend/internal/agent"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/logger"
)

type triggerAgentRequest struct {
	ReservationID uuid.UUID `json:"reservationId" validate:"required"`
}

type triggerAgentResponse struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

// AgentTrigger accepts a gap analysis request and returns the job handle
// with 202. The workflow outcome is observed later through carts and the
// audit trail, never through this response.
func AgentTrigger(trigger *agent.Trigger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if trigger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent trigger unavailable"))
			return
		}

		var payload triggerAgentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := trigger.Enqueue(r.Context(), payload.ReservationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, triggerAgentResponse{
			JobID:   job.ID,
			Message: "Inventory gap analysis queued",
		})
	}
}
