package models

import (
	"encoding/json"
	"time"
)

// EventKind discriminates the two event types held by the event store.
type EventKind string

const (
	EventKindPing     EventKind = "ping"
	EventKindSnapshot EventKind = "snapshot"
)

// LivenessPing is a lightweight heartbeat from a workstation agent.
// Pings are immutable once stored; the retention sweeper is the only
// component that removes them.
type LivenessPing struct {
	ID             string    `json:"id" db:"id"`
	WorkerID       string    `json:"worker_id" db:"worker_id"`
	SourceHost     string    `json:"source_host" db:"source_host"`
	ReportedStatus string    `json:"reported_status" db:"reported_status"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DetailedSnapshot is a periodic activity report from a workstation agent,
// optionally carrying a reference to a stored screenshot. The activity
// payload is kept as raw JSON and parsed at aggregation time so that one
// malformed payload never blocks ingestion or aggregation of the rest.
type DetailedSnapshot struct {
	ID             string          `json:"id" db:"id"`
	WorkerID       string          `json:"worker_id" db:"worker_id"`
	SourceHost     string          `json:"source_host" db:"source_host"`
	LocalIP        string          `json:"local_ip" db:"local_ip"`
	PublicIP       string          `json:"public_ip" db:"public_ip"`
	Location       string          `json:"location" db:"location"`
	Activity       json.RawMessage `json:"activity" db:"activity"`
	ScreenshotPath string          `json:"screenshot_path" db:"screenshot_path"`
	Timestamp      time.Time       `json:"timestamp" db:"timestamp"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// WorkerStatus is the derived online/offline state for one worker.
type WorkerStatus struct {
	WorkerID   string     `json:"worker_id"`
	SourceHost string     `json:"source_host,omitempty"`
	Status     string     `json:"status"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
}

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)
