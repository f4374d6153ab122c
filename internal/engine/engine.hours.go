// FilePath: internal/engine/engine.hours.go
package engine

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/models"
)

// SumActiveTime collapses a day's event timestamps into total active time.
// Consecutive gaps of at most maxGap count as continuous work; larger gaps
// are untracked breaks and contribute nothing. The input may arrive in any
// order; it is sorted before walking, so delayed submissions with accurate
// timestamps land correctly. A single timestamp yields zero active time
// with first == last.
func SumActiveTime(timestamps []time.Time, maxGap time.Duration) (active time.Duration, first, last *time.Time) {
	if len(timestamps) == 0 {
		return 0, nil, nil
	}

	sorted := make([]time.Time, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	first = &sorted[0]
	last = &sorted[len(sorted)-1]

	for i := 0; i < len(sorted)-1; i++ {
		gap := sorted[i+1].Sub(sorted[i])
		if gap <= maxGap {
			active += gap
		}
	}
	return active, first, last
}

// RoundHours converts an active duration to hours rounded to one decimal.
func RoundHours(active time.Duration) float64 {
	return math.Round(active.Hours()*10) / 10
}

// ProductivityScore maps working hours to a 0-100 percentage of the
// configured full-day target. Monotonic in hours, capped at 100.
func (e *Engine) ProductivityScore(workingHours float64) int {
	if workingHours <= 0 {
		return 0
	}
	score := int(math.Round(workingHours / e.cfg.FullDayTargetHours * 100))
	if score > 100 {
		score = 100
	}
	return score
}

// WorkingHours computes the gap-detection working-hours figure for one
// worker on one local calendar day, from the merged ping and snapshot
// timestamps. A day with no events returns a zero report, not an error.
func (e *Engine) WorkingHours(ctx context.Context, workerID string, date time.Time) (*models.WorkingHoursReport, error) {
	start, end := e.dayBounds(date)

	timestamps, err := e.dayTimestamps(ctx, workerID, start, end)
	if err != nil {
		return nil, err
	}

	active, first, last := SumActiveTime(timestamps, e.cfg.MaxContinuousGap)
	hours := RoundHours(active)

	return &models.WorkingHoursReport{
		WorkerID:     workerID,
		Date:         e.dayKey(start),
		WorkingHours: hours,
		Productivity: e.ProductivityScore(hours),
		FirstSeen:    first,
		LastSeen:     last,
	}, nil
}

// dayTimestamps merges ping and snapshot timestamps for [start, end).
func (e *Engine) dayTimestamps(ctx context.Context, workerID string, start, end time.Time) ([]time.Time, error) {
	pings, err := e.Pings.QueryRange(ctx, workerID, start, end)
	if err != nil {
		return nil, err
	}
	snapshots, err := e.Snapshots.QueryRange(ctx, workerID, start, end)
	if err != nil {
		return nil, err
	}

	timestamps := make([]time.Time, 0, len(pings)+len(snapshots))
	for _, p := range pings {
		timestamps = append(timestamps, p.Timestamp)
	}
	for _, s := range snapshots {
		timestamps = append(timestamps, s.Timestamp)
	}
	return timestamps, nil
}
