// FilePath: internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Basavaraj-fidelis/wfh/api"
	"github.com/Basavaraj-fidelis/wfh/api/middleware"
	"github.com/Basavaraj-fidelis/wfh/internal/cache"
	"github.com/Basavaraj-fidelis/wfh/internal/cleanup"
	"github.com/Basavaraj-fidelis/wfh/internal/config"
	"github.com/Basavaraj-fidelis/wfh/internal/database"
	"github.com/Basavaraj-fidelis/wfh/internal/engine"
	"github.com/Basavaraj-fidelis/wfh/internal/monitoring"
	"github.com/Basavaraj-fidelis/wfh/internal/repository/files"
	"github.com/Basavaraj-fidelis/wfh/internal/repository/postgres"
	"github.com/gorilla/handlers"
	nuts "github.com/vaudience/go-nuts"
)

const databasePingTimeout = 5 * time.Second

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	engine     *engine.Engine
	sweeper    *cleanup.Sweeper
	monitoring *monitoring.Service
	cancel     context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
	}
}

// Start wires the engine together and begins listening for requests
func (s *Server) Start() error {
	s.engine, s.sweeper = initializeEngine(s.config)
	s.monitoring = monitoring.NewService(monitoring.Config{})

	s.setupSweepHandlers()

	router := api.NewRouter(s.engine, s.sweeper, middleware.TokenConfig{
		AgentToken: s.config.Auth.AgentToken,
		AdminToken: s.config.Auth.AdminToken,
	}, s.handleHealth(), s.handleMetrics())

	// Request logging and permissive CORS on the outer handler; the
	// reporting dashboard is served from another origin.
	handler := handlers.CombinedLoggingHandler(os.Stdout,
		handlers.CORS(
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		)(router))

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      handler,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	// Scheduled retention sweeps, independent of request traffic
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.sweeper.Run(ctx, s.config.Retention.SweepInterval)

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupSweepHandlers() {
	s.sweeper.OnSweep("retention.pings", func(count int64) {
		s.monitoring.AddCount("retention_pings_deleted", count)
	})
	s.sweeper.OnSweep("retention.snapshots", func(count int64) {
		s.monitoring.AddCount("retention_snapshots_deleted", count)
	})
	s.sweeper.OnSweep("retention.images", func(count int64) {
		s.monitoring.AddCount("retention_images_deleted", count)
	})
}

// handleHealth returns a simple health check handler
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
	}
}

// handleMetrics serves the in-process counters
func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(s.monitoring.Counters())
	}
}

// initializeEngine creates and configures the derivation engine and sweeper
func initializeEngine(cfg *config.Config) (*engine.Engine, *cleanup.Sweeper) {
	db := initDB(cfg.Database.Postgres)

	pings, err := postgres.NewPingRepository(db)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize ping repository: %v", err)
	}
	snapshots, err := postgres.NewSnapshotRepository(db)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize snapshot repository: %v", err)
	}
	screenshots, err := files.NewScreenshotRepository(files.ScreenshotConfig{
		BasePath:    cfg.FileStore.BasePath,
		MaxFileSize: cfg.FileStore.MaxFileSize,
	})
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize screenshot store: %v", err)
	}

	dayCache := cache.New(cfg.Redis)

	eng, err := engine.New(pings, snapshots, screenshots, dayCache, cfg.Monitor)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize engine: %v", err)
	}
	if err := eng.Validate(); err != nil {
		nuts.L.Fatalf("[Server] Engine validation failed: %v", err)
	}

	sweeper := cleanup.New(pings, snapshots, screenshots, cfg.Retention.Window)
	return eng, sweeper
}

func initDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to Postgres: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), databasePingTimeout)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping database: %v", err)
	}
	return wrappedDB
}
