package api

import (
	"net/http"

	"github.com/Basavaraj-fidelis/wfh/api/middleware"
	"github.com/Basavaraj-fidelis/wfh/api/resources"
	"github.com/Basavaraj-fidelis/wfh/internal/cleanup"
	"github.com/Basavaraj-fidelis/wfh/internal/engine"
	"github.com/gorilla/mux"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.TokenMiddleware
	resources *resources.Resources
}

func NewRouter(eng *engine.Engine, sweeper *cleanup.Sweeper, tokenConfig middleware.TokenConfig, health, metrics http.HandlerFunc) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewTokenMiddleware(tokenConfig),
		resources: resources.NewResources(eng, sweeper),
	}
	r.resources.SetHealthCheck(health)
	r.resources.SetMetrics(metrics)

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/metrics", r.resources.Metrics).Methods(http.MethodGet)

	// Agent routes (ingestion)
	agent := api.PathPrefix("").Subrouter()
	agent.Use(r.auth.RequireAgent)
	agent.HandleFunc("/heartbeat", r.resources.Ingest.RecordHeartbeat).Methods(http.MethodPost)
	agent.HandleFunc("/snapshots", r.resources.Ingest.RecordSnapshot).Methods(http.MethodPost)

	// Admin routes (reporting and retention)
	admin := api.PathPrefix("").Subrouter()
	admin.Use(r.auth.RequireAdmin)

	workers := admin.PathPrefix("/workers").Subrouter()
	workers.HandleFunc("/status", r.resources.Workers.ListStatuses).Methods(http.MethodGet)
	workers.HandleFunc("/{id}/status", r.resources.Workers.GetStatus).Methods(http.MethodGet)
	workers.HandleFunc("/{id}/working-hours", r.resources.Workers.GetWorkingHours).Methods(http.MethodGet)
	workers.HandleFunc("/{id}/activity", r.resources.Workers.GetDailyActivity).Methods(http.MethodGet)
	workers.HandleFunc("/{id}/snapshots", r.resources.Workers.ListSnapshots).Methods(http.MethodGet)

	admin.HandleFunc("/screenshots/{ref:.+}", r.resources.Screenshots.GetScreenshot).Methods(http.MethodGet)
	admin.HandleFunc("/retention/sweep", r.resources.Retention.TriggerSweep).Methods(http.MethodPost)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
