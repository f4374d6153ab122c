// FilePath: api/resources/api.resource.workers.go
package resources

import (
	"net/http"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/engine"
	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"
)

// WorkerHandlers encapsulates the reporting-side worker handlers
type WorkerHandlers struct {
	engine *engine.Engine
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// @Summary List worker statuses
// @Description Get the derived online/offline status of every known worker
// @Tags workers
// @Produce json
// @Success 200 {array} models.WorkerStatus
// @Router /workers/status [get]
// @Security BearerAuth
func (h *WorkerHandlers) ListStatuses(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	statuses, err := h.engine.AllStatuses(r.Context(), time.Now())
	if err != nil {
		respondWithEngineError(w, "failed to list worker statuses", err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, statuses)
}

// @Summary Get worker status
// @Description Get the derived online/offline status of one worker
// @Tags workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} models.WorkerStatus
// @Router /workers/{id}/status [get]
// @Security BearerAuth
func (h *WorkerHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	status, err := h.engine.Status(r.Context(), id, time.Now())
	if err != nil {
		respondWithEngineError(w, "failed to get worker status", err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

type workingHoursQuery struct {
	Date string `schema:"date"`
}

// @Summary Get working hours
// @Description Gap-detection working hours for a worker on one calendar day
// @Tags workers
// @Produce json
// @Param id path string true "Worker ID"
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.WorkingHoursReport
// @Failure 400 {object} errors.APIError
// @Router /workers/{id}/working-hours [get]
// @Security BearerAuth
func (h *WorkerHandlers) GetWorkingHours(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var query workingHoursQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	date := time.Now()
	if query.Date != "" {
		parsed, err := time.Parse("2006-01-02", query.Date)
		if err != nil {
			respondWithError(w, errors.NewValidationError("date must be YYYY-MM-DD", err).WithRequestID(requestID))
			return
		}
		date = parsed
	}

	report, err := h.engine.WorkingHours(r.Context(), id, date)
	if err != nil {
		respondWithEngineError(w, "failed to calculate working hours", err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

type activityQuery struct {
	Start string `schema:"start"`
	End   string `schema:"end"`
}

// @Summary Get daily activity
// @Description Per-day activity rollups for a worker over a date range
// @Tags workers
// @Produce json
// @Param id path string true "Worker ID"
// @Param start query string false "First day (YYYY-MM-DD), defaults to 6 days ago"
// @Param end query string false "Last day (YYYY-MM-DD), defaults to today"
// @Success 200 {array} models.DayActivity
// @Failure 400 {object} errors.APIError
// @Router /workers/{id}/activity [get]
// @Security BearerAuth
func (h *WorkerHandlers) GetDailyActivity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var query activityQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	now := time.Now()
	start := now.AddDate(0, 0, -6)
	end := now

	if query.Start != "" {
		parsed, err := time.Parse("2006-01-02", query.Start)
		if err != nil {
			respondWithError(w, errors.NewValidationError("start must be YYYY-MM-DD", err).WithRequestID(requestID))
			return
		}
		start = parsed
	}
	if query.End != "" {
		parsed, err := time.Parse("2006-01-02", query.End)
		if err != nil {
			respondWithError(w, errors.NewValidationError("end must be YYYY-MM-DD", err).WithRequestID(requestID))
			return
		}
		end = parsed
	}
	if end.Before(start) {
		respondWithError(w, errors.NewValidationError("end must not precede start", nil).WithRequestID(requestID))
		return
	}

	days, err := h.engine.DailyActivity(r.Context(), id, start, end)
	if err != nil {
		respondWithEngineError(w, "failed to aggregate daily activity", err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, days)
}

type snapshotsQuery struct {
	Days int `schema:"days"`
}

// @Summary List recent snapshots
// @Description Detailed snapshots for a worker from the last N days, newest first
// @Tags workers
// @Produce json
// @Param id path string true "Worker ID"
// @Param days query int false "Lookback window in days (default 7)"
// @Success 200 {array} models.DetailedSnapshot
// @Router /workers/{id}/snapshots [get]
// @Security BearerAuth
func (h *WorkerHandlers) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	var query snapshotsQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	snapshots, err := h.engine.RecentSnapshots(r.Context(), id, query.Days)
	if err != nil {
		respondWithEngineError(w, "failed to list snapshots", err, requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, snapshots)
}
