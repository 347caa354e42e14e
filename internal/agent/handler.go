package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/staysupply/staysupply-backend/pkg/queue"
)

// NewJobHandler adapts the engine to the queue contract. Decode failures and
// malformed reservation ids are returned as errors so the retry policy sees
// them; they exhaust attempts quickly and land on the failed list.
func NewJobHandler(engine *Engine) queue.HandlerFunc {
	return func(ctx context.Context, job queue.Job) error {
		var data JobData
		if err := json.Unmarshal(job.Data, &data); err != nil {
			return fmt.Errorf("decoding job data: %w", err)
		}
		reservationID, err := uuid.Parse(data.ReservationID)
		if err != nil {
			return fmt.Errorf("parsing reservation id %q: %w", data.ReservationID, err)
		}
		_, err = engine.Analyze(ctx, reservationID)
		return err
	}
}
