// FilePath: api/resources/api.resource.ingest.go
package resources

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/engine"
	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	"github.com/Basavaraj-fidelis/wfh/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// IngestHandlers encapsulates the agent-facing ingestion handlers. Callers
// are already authenticated by the token middleware; handlers only do shape
// validation before handing records to the engine.
type IngestHandlers struct {
	engine *engine.Engine
}

type heartbeatRequest struct {
	WorkerID       string     `json:"worker_id"`
	SourceHost     string     `json:"source_host"`
	ReportedStatus string     `json:"reported_status"`
	Timestamp      *time.Time `json:"timestamp"`
}

// @Summary Record a liveness heartbeat
// @Description Accept a periodic liveness ping from a workstation agent
// @Tags ingest
// @Accept json
// @Produce json
// @Param heartbeat body heartbeatRequest true "Heartbeat details"
// @Success 201 {object} models.LivenessPing
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Router /heartbeat [post]
// @Security BearerAuth
func (h *IngestHandlers) RecordHeartbeat(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req heartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if req.WorkerID == "" {
		respondWithError(w, errors.NewValidationError("worker_id is required", nil).WithRequestID(requestID))
		return
	}

	ping := &models.LivenessPing{
		WorkerID:       req.WorkerID,
		SourceHost:     req.SourceHost,
		ReportedStatus: req.ReportedStatus,
	}
	if req.Timestamp != nil {
		ping.Timestamp = *req.Timestamp
	}

	if err := h.engine.RecordPing(r.Context(), ping); err != nil {
		respondWithEngineError(w, "failed to record heartbeat", err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, ping)
}

// @Summary Record a detailed snapshot
// @Description Accept a detailed activity snapshot with an optional screenshot upload
// @Tags ingest
// @Accept multipart/form-data
// @Produce json
// @Param worker_id formData string true "Worker ID"
// @Param source_host formData string false "Reporting hostname"
// @Param local_ip formData string false "Local network address"
// @Param public_ip formData string false "Public network address"
// @Param location formData string false "Resolved location descriptor"
// @Param activity formData string false "Activity payload JSON"
// @Param screenshot formData file false "Screenshot image"
// @Success 201 {object} models.DetailedSnapshot
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Router /snapshots [post]
// @Security BearerAuth
func (h *IngestHandlers) RecordSnapshot(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondWithError(w, errors.NewValidationError("invalid multipart form", err).WithRequestID(requestID))
		return
	}

	snapshot := &models.DetailedSnapshot{
		WorkerID:   r.FormValue("worker_id"),
		SourceHost: r.FormValue("source_host"),
		LocalIP:    r.FormValue("local_ip"),
		PublicIP:   r.FormValue("public_ip"),
		Location:   r.FormValue("location"),
	}
	if snapshot.WorkerID == "" {
		respondWithError(w, errors.NewValidationError("worker_id is required", nil).WithRequestID(requestID))
		return
	}

	if ts := r.FormValue("timestamp"); ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			respondWithError(w, errors.NewValidationError("timestamp must be RFC3339", err).WithRequestID(requestID))
			return
		}
		snapshot.Timestamp = parsed
	}

	if activity := r.FormValue("activity"); activity != "" {
		if !json.Valid([]byte(activity)) {
			respondWithError(w, errors.NewValidationError("activity must be valid JSON", nil).WithRequestID(requestID))
			return
		}
		snapshot.Activity = []byte(activity)
	}

	var screenshot io.Reader
	file, _, err := r.FormFile("screenshot")
	if err != nil && err != http.ErrMissingFile {
		respondWithError(w, errors.NewValidationError("invalid screenshot upload", err).WithRequestID(requestID))
		return
	}
	if err == nil {
		defer file.Close()
		screenshot = file
	}

	if err := h.engine.RecordSnapshot(r.Context(), snapshot, screenshot); err != nil {
		respondWithEngineError(w, "failed to record snapshot", err, requestID)
		return
	}

	respondWithJSON(w, http.StatusCreated, snapshot)
}

// respondWithEngineError preserves the engine's error typing on the wire
// instead of flattening everything to an internal error.
func respondWithEngineError(w http.ResponseWriter, msg string, err error, requestID string) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError(msg, err).WithRequestID(requestID))
}
