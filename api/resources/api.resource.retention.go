// FilePath: api/resources/api.resource.retention.go
package resources

import (
	"net/http"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/cleanup"
	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// RetentionHandlers exposes the manual sweep trigger alongside the
// scheduled run.
type RetentionHandlers struct {
	sweeper *cleanup.Sweeper
}

// @Summary Trigger a retention sweep
// @Description Delete events and screenshots older than the retention window
// @Tags retention
// @Produce json
// @Success 200 {object} cleanup.Result
// @Failure 503 {object} errors.APIError
// @Router /retention/sweep [post]
// @Security BearerAuth
func (h *RetentionHandlers) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	result, err := h.sweeper.Sweep(r.Context(), time.Now())
	if err != nil {
		respondWithError(w, errors.NewDatabaseError("retention sweep failed", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
