// FilePath: internal/engine/engine.activity.go
package engine

import (
	"context"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// DailyActivity returns one DayActivity per calendar day in [start, end],
// inclusive, including all-zero entries for days without events so callers
// can render a continuous calendar. A snapshot whose activity payload does
// not parse is skipped and counted, never aborting the rest of the day or
// range.
func (e *Engine) DailyActivity(ctx context.Context, workerID string, start, end time.Time) ([]*models.DayActivity, error) {
	dayStart, _ := e.dayBounds(start)
	lastStart, _ := e.dayBounds(end)

	today := e.dayKey(time.Now())

	days := []*models.DayActivity{}
	for !dayStart.After(lastStart) {
		date := e.dayKey(dayStart)

		// Finished days are safe to serve from cache; today keeps changing
		// and is additionally invalidated on ingest.
		if cached := e.cache.Get(ctx, workerID, date); cached != nil {
			days = append(days, cached)
			dayStart = dayStart.AddDate(0, 0, 1)
			continue
		}

		day, err := e.dayActivity(ctx, workerID, dayStart)
		if err != nil {
			return nil, err
		}
		days = append(days, day)

		if date != today {
			e.cache.Set(ctx, workerID, day)
		}
		dayStart = dayStart.AddDate(0, 0, 1)
	}
	return days, nil
}

// dayActivity builds the rollup for the local day starting at dayStart.
func (e *Engine) dayActivity(ctx context.Context, workerID string, dayStart time.Time) (*models.DayActivity, error) {
	dayEnd := dayStart.AddDate(0, 0, 1)

	pings, err := e.Pings.QueryRange(ctx, workerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	snapshots, err := e.Snapshots.QueryRange(ctx, workerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	day := &models.DayActivity{
		Date:         e.dayKey(dayStart),
		WorkLocation: models.WorkLocationRemote,
		PingCount:    len(pings),
		AppUsage:     map[string]int{},
		LockEvents:   []models.LockEvent{},
		SitesVisited: []models.SiteVisit{},
		Screenshots:  []string{},
	}

	merged := &models.ActivityPayload{}
	timestamps := make([]time.Time, 0, len(pings)+len(snapshots))
	for _, p := range pings {
		timestamps = append(timestamps, p.Timestamp)
	}

	for _, snapshot := range snapshots {
		timestamps = append(timestamps, snapshot.Timestamp)

		// Location is classified per day: one office-address event marks
		// the whole day as worked from the office.
		if e.officeIP[snapshot.PublicIP] {
			day.WorkLocation = models.WorkLocationOffice
		}
		if snapshot.ScreenshotPath != "" {
			day.Screenshots = append(day.Screenshots, snapshot.ScreenshotPath)
		}

		payload, err := models.ParseActivityPayload(snapshot.Activity)
		if err != nil {
			nuts.L.Warnf("[Engine] Skipping malformed activity payload on snapshot %s: %v", snapshot.ID, err)
			day.SkippedSnapshots++
			continue
		}
		merged.Merge(payload)
	}

	day.ActiveMinutes = merged.ActiveMinutes
	day.IdleMinutes = merged.IdleMinutes
	if len(merged.AppUsage) > 0 {
		day.AppUsage = merged.AppUsage
	}
	if len(merged.SitesVisited) > 0 {
		day.SitesVisited = merged.SitesVisited
	}
	if len(merged.LockEvents) > 0 {
		day.LockEvents = merged.LockEvents
	}

	active, _, _ := SumActiveTime(timestamps, e.cfg.MaxContinuousGap)
	day.WorkingHours = RoundHours(active)
	day.Productivity = e.ProductivityScore(day.WorkingHours)

	return day, nil
}

// RecentSnapshots lists a worker's detailed snapshots from the last N days,
// newest first.
func (e *Engine) RecentSnapshots(ctx context.Context, workerID string, days int) ([]*models.DetailedSnapshot, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()
	snapshots, err := e.Snapshots.QueryRange(ctx, workerID, now.AddDate(0, 0, -days), now)
	if err != nil {
		return nil, err
	}

	// QueryRange is ascending; reverse for a newest-first listing
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	return snapshots, nil
}
