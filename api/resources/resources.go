// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/Basavaraj-fidelis/wfh/internal/cleanup"
	"github.com/Basavaraj-fidelis/wfh/internal/engine"
	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Ingest      *IngestHandlers
	Workers     *WorkerHandlers
	Screenshots *ScreenshotHandlers
	Retention   *RetentionHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(eng *engine.Engine, sweeper *cleanup.Sweeper) *Resources {
	return &Resources{
		Ingest:      &IngestHandlers{engine: eng},
		Workers:     &WorkerHandlers{engine: eng},
		Screenshots: &ScreenshotHandlers{engine: eng},
		Retention:   &RetentionHandlers{sweeper: sweeper},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h func(w http.ResponseWriter, r *http.Request)) {
	r.Metrics = h
}

// Helper functions

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
