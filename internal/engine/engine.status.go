// FilePath: internal/engine/engine.status.go
package engine

import (
	"context"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	"github.com/Basavaraj-fidelis/wfh/internal/models"
)

// Status derives the online/offline state of a worker from the age of its
// most recent liveness ping. A worker with no pings at all is offline, not
// an error.
func (e *Engine) Status(ctx context.Context, workerID string, now time.Time) (*models.WorkerStatus, error) {
	ping, err := e.Pings.Latest(ctx, workerID)
	if err != nil {
		if errors.IsNotFound(err) {
			return &models.WorkerStatus{
				WorkerID: workerID,
				Status:   models.StatusOffline,
			}, nil
		}
		return nil, err
	}

	lastSeen := ping.Timestamp
	return &models.WorkerStatus{
		WorkerID:   workerID,
		SourceHost: ping.SourceHost,
		Status:     statusFromAge(lastSeen, now, e.cfg.OfflineThreshold),
		LastSeen:   &lastSeen,
	}, nil
}

// AllStatuses returns the derived status of every worker that has ever
// pinged, for the fleet overview.
func (e *Engine) AllStatuses(ctx context.Context, now time.Time) ([]*models.WorkerStatus, error) {
	pings, err := e.Pings.LatestPerWorker(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]*models.WorkerStatus, 0, len(pings))
	for _, ping := range pings {
		lastSeen := ping.Timestamp
		statuses = append(statuses, &models.WorkerStatus{
			WorkerID:   ping.WorkerID,
			SourceHost: ping.SourceHost,
			Status:     statusFromAge(lastSeen, now, e.cfg.OfflineThreshold),
			LastSeen:   &lastSeen,
		})
	}
	return statuses, nil
}

func statusFromAge(lastSeen, now time.Time, threshold time.Duration) string {
	if now.Sub(lastSeen) <= threshold {
		return models.StatusOnline
	}
	return models.StatusOffline
}
