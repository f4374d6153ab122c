package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Sweeper enforces the bounded-retention policy over the event store:
// every ping and snapshot older than the retention window is deleted, along
// with the screenshot files the deleted snapshots reference.
type Sweeper struct {
	pings       repository.PingRepository
	snapshots   repository.SnapshotRepository
	screenshots repository.ScreenshotStore
	window      time.Duration
	events      *nuts.EventEmitter
}

// Result reports what one sweep pass removed.
type Result struct {
	PingsDeleted     int64 `json:"pings_deleted"`
	SnapshotsDeleted int64 `json:"snapshots_deleted"`
	ImagesDeleted    int64 `json:"images_deleted"`
}

// New creates a new Sweeper
func New(
	pings repository.PingRepository,
	snapshots repository.SnapshotRepository,
	screenshots repository.ScreenshotStore,
	window time.Duration,
) *Sweeper {
	return &Sweeper{
		pings:       pings,
		snapshots:   snapshots,
		screenshots: screenshots,
		window:      window,
		events:      nuts.NewEventEmitter(),
	}
}

// Sweep deletes all events with timestamp < now - window and their
// screenshot files. Rows go first, in one transaction, so a concurrent
// reader sees either the pre-sweep or post-sweep state and never a snapshot
// row whose file is already gone; file deletion after commit is best-effort
// because a stale image is preferable to stuck retention. Re-running a
// sweep over already-clean history returns all-zero counts.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (*Result, error) {
	cutoff := now.Add(-s.window)
	result := &Result{}

	tx, err := s.pings.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	// Collect screenshot paths inside the transaction, before the rows go
	paths, err := s.snapshots.ListPathsBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list screenshot paths: %w", err)
	}

	result.PingsDeleted, err = s.pings.DeleteBefore(ctx, cutoff, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete old pings: %w", err)
	}

	result.SnapshotsDeleted, err = s.snapshots.DeleteBefore(ctx, cutoff, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete old snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result.ImagesDeleted = s.deleteScreenshots(ctx, paths)

	s.events.Emit("retention.pings", result.PingsDeleted)
	s.events.Emit("retention.snapshots", result.SnapshotsDeleted)
	s.events.Emit("retention.images", result.ImagesDeleted)

	nuts.L.Infof("[Sweeper] Removed %d pings, %d snapshots, %d screenshots before %v",
		result.PingsDeleted, result.SnapshotsDeleted, result.ImagesDeleted, cutoff)
	return result, nil
}

// deleteScreenshots removes the files for already-deleted rows. One retry
// per file for transient failures; permanent failures are logged and left
// for a later pass.
func (s *Sweeper) deleteScreenshots(ctx context.Context, paths []string) int64 {
	var deleted int64
	for _, path := range paths {
		found, err := s.screenshots.Delete(ctx, path)
		if err != nil {
			found, err = s.screenshots.Delete(ctx, path)
		}
		if err != nil {
			nuts.L.Warnf("[Sweeper] Failed to delete screenshot %s: %v", path, err)
			continue
		}
		if found {
			deleted++
		}
	}
	return deleted
}

// Run sweeps on a fixed interval until the context is cancelled. A failed
// pass is logged and retried on the next tick rather than treated as
// permanent.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	nuts.L.Infof("[Sweeper] Retention sweeps every %v, window %v", interval, s.window)
	for {
		select {
		case <-ctx.Done():
			nuts.L.Infof("[Sweeper] Stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, time.Now()); err != nil {
				nuts.L.Errorf("[Sweeper] Sweep failed, retrying next tick: %v", err)
			}
		}
	}
}

// OnSweep registers a callback for retention events
func (s *Sweeper) OnSweep(event string, handler func(count int64)) {
	s.events.On(event, "sweep_handler", func(count int64) {
		handler(count)
	})
}
