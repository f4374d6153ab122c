package models

import (
	"encoding/json"
	"time"
)

// SiteVisit is one browser navigation event reported in a snapshot payload.
type SiteVisit struct {
	Browser   string    `json:"browser"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// LockEvent records a screen-lock or screensaver transition.
type LockEvent struct {
	Locked            bool `json:"locked"`
	ScreensaverActive bool `json:"screensaver_active"`
}

// ActivityPayload is the structured part of a DetailedSnapshot. All fields
// are optional on the wire; a missing field merges as its zero value.
type ActivityPayload struct {
	ActiveMinutes int            `json:"active_minutes"`
	IdleMinutes   int            `json:"idle_minutes"`
	AppUsage      map[string]int `json:"app_usage"`
	SitesVisited  []SiteVisit    `json:"sites_visited"`
	LockEvents    []LockEvent    `json:"lock_events"`
}

// ParseActivityPayload decodes a snapshot's raw activity JSON. An empty
// payload decodes to the zero value rather than an error.
func ParseActivityPayload(raw []byte) (*ActivityPayload, error) {
	payload := &ActivityPayload{}
	if len(raw) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Merge folds another payload into this one: minute counters add, lists
// concatenate. Merge order follows snapshot timestamp order, which keeps
// SitesVisited chronologically sorted when the inputs are.
func (p *ActivityPayload) Merge(other *ActivityPayload) {
	if other == nil {
		return
	}
	p.ActiveMinutes += other.ActiveMinutes
	p.IdleMinutes += other.IdleMinutes
	for app, minutes := range other.AppUsage {
		if p.AppUsage == nil {
			p.AppUsage = make(map[string]int)
		}
		p.AppUsage[app] += minutes
	}
	p.SitesVisited = append(p.SitesVisited, other.SitesVisited...)
	p.LockEvents = append(p.LockEvents, other.LockEvents...)
}

// WorkLocation classifies where a worker spent a given day.
type WorkLocation string

const (
	WorkLocationOffice WorkLocation = "office"
	WorkLocationRemote WorkLocation = "remote"
)

// DayActivity is the per-calendar-day rollup for one worker. It is derived
// on every query from the stored events and never persisted.
type DayActivity struct {
	Date             string         `json:"date"`
	WorkLocation     WorkLocation   `json:"work_location"`
	PingCount        int            `json:"ping_count"`
	ActiveMinutes    int            `json:"active_minutes"`
	IdleMinutes      int            `json:"idle_minutes"`
	LockEvents       []LockEvent    `json:"lock_events"`
	AppUsage         map[string]int `json:"app_usage"`
	SitesVisited     []SiteVisit    `json:"sites_visited"`
	Screenshots      []string       `json:"screenshots"`
	WorkingHours     float64        `json:"working_hours"`
	Productivity     int            `json:"productivity"`
	SkippedSnapshots int            `json:"skipped_snapshots,omitempty"`
}

// WorkingHoursReport is the result of the gap-detection calculation for one
// worker and one local day.
type WorkingHoursReport struct {
	WorkerID     string     `json:"worker_id"`
	Date         string     `json:"date"`
	WorkingHours float64    `json:"working_hours"`
	Productivity int        `json:"productivity"`
	FirstSeen    *time.Time `json:"first_seen"`
	LastSeen     *time.Time `json:"last_seen"`
}
