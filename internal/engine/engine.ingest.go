// FilePath: internal/engine/engine.ingest.go
package engine

import (
	"context"
	"io"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	"github.com/Basavaraj-fidelis/wfh/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// RecordPing persists a liveness ping. Shape validation happened upstream;
// here only the store invariants are enforced.
func (e *Engine) RecordPing(ctx context.Context, ping *models.LivenessPing) error {
	if ping.Timestamp.IsZero() {
		ping.Timestamp = time.Now()
	}
	if ping.ReportedStatus == "" {
		ping.ReportedStatus = models.StatusOnline
	}

	if err := e.Pings.Append(ctx, ping); err != nil {
		return err
	}

	e.cache.Invalidate(ctx, ping.WorkerID, e.dayKey(ping.Timestamp))
	return nil
}

// RecordSnapshot persists a detailed snapshot, storing the screenshot bytes
// first so the row never references a file that does not exist.
func (e *Engine) RecordSnapshot(ctx context.Context, snapshot *models.DetailedSnapshot, screenshot io.Reader) error {
	if snapshot.WorkerID == "" {
		return errors.NewValidationError("snapshot requires worker_id", nil)
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now()
	}

	if screenshot != nil {
		path, err := e.Screenshots.Save(ctx, snapshot.WorkerID, snapshot.Timestamp, screenshot)
		if err != nil {
			return err
		}
		snapshot.ScreenshotPath = path
	}

	if err := e.Snapshots.Append(ctx, snapshot); err != nil {
		// Keep row and file paired: drop the orphaned file on a failed insert
		if snapshot.ScreenshotPath != "" {
			if _, delErr := e.Screenshots.Delete(ctx, snapshot.ScreenshotPath); delErr != nil {
				nuts.L.Warnf("[Engine] Failed to remove orphaned screenshot %s: %v", snapshot.ScreenshotPath, delErr)
			}
		}
		return err
	}

	e.cache.Invalidate(ctx, snapshot.WorkerID, e.dayKey(snapshot.Timestamp))
	return nil
}
