package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/database"
	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	"github.com/Basavaraj-fidelis/wfh/internal/models"
)

type memTx struct {
	committed  bool
	rolledBack bool
}

func (t *memTx) Commit() error   { t.committed = true; return nil }
func (t *memTx) Rollback() error { t.rolledBack = true; return nil }
func (t *memTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

type memPings struct {
	pings  []*models.LivenessPing
	lastTx *memTx
}

func (r *memPings) BeginTx(ctx context.Context) (database.Transaction, error) {
	r.lastTx = &memTx{}
	return r.lastTx, nil
}

func (r *memPings) Append(ctx context.Context, ping *models.LivenessPing) error {
	r.pings = append(r.pings, ping)
	return nil
}

func (r *memPings) QueryRange(ctx context.Context, workerID string, start, end time.Time) ([]*models.LivenessPing, error) {
	return nil, nil
}

func (r *memPings) Latest(ctx context.Context, workerID string) (*models.LivenessPing, error) {
	return nil, errors.NewNotFoundError("no pings", nil)
}

func (r *memPings) LatestPerWorker(ctx context.Context) ([]*models.LivenessPing, error) {
	return nil, nil
}

func (r *memPings) DeleteBefore(ctx context.Context, before time.Time, tx database.Transaction) (int64, error) {
	kept := r.pings[:0]
	var deleted int64
	for _, p := range r.pings {
		if p.Timestamp.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	r.pings = kept
	return deleted, nil
}

type memSnapshots struct {
	snapshots []*models.DetailedSnapshot
}

func (r *memSnapshots) BeginTx(ctx context.Context) (database.Transaction, error) {
	return &memTx{}, nil
}

func (r *memSnapshots) Append(ctx context.Context, snapshot *models.DetailedSnapshot) error {
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

func (r *memSnapshots) QueryRange(ctx context.Context, workerID string, start, end time.Time) ([]*models.DetailedSnapshot, error) {
	return nil, nil
}

func (r *memSnapshots) Get(ctx context.Context, id string) (*models.DetailedSnapshot, error) {
	return nil, errors.NewNotFoundError("snapshot not found", nil)
}

func (r *memSnapshots) ListPathsBefore(ctx context.Context, before time.Time) ([]string, error) {
	var paths []string
	for _, s := range r.snapshots {
		if s.Timestamp.Before(before) && s.ScreenshotPath != "" {
			paths = append(paths, s.ScreenshotPath)
		}
	}
	return paths, nil
}

func (r *memSnapshots) DeleteBefore(ctx context.Context, before time.Time, tx database.Transaction) (int64, error) {
	kept := r.snapshots[:0]
	var deleted int64
	for _, s := range r.snapshots {
		if s.Timestamp.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.snapshots = kept
	return deleted, nil
}

type memShots struct {
	files map[string]bool
	// failures[path] counts remaining Delete calls that error out before
	// one succeeds, to simulate transient storage trouble
	failures map[string]int
	deletes  int
}

func newMemShots() *memShots {
	return &memShots{files: map[string]bool{}, failures: map[string]int{}}
}

func (s *memShots) Save(ctx context.Context, workerID string, timestamp time.Time, src io.Reader) (string, error) {
	path := fmt.Sprintf("%s/%d.png", workerID, timestamp.UnixNano())
	s.files[path] = true
	return path, nil
}

func (s *memShots) Delete(ctx context.Context, path string) (bool, error) {
	s.deletes++
	if s.failures[path] > 0 {
		s.failures[path]--
		return false, fmt.Errorf("transient storage error")
	}
	if !s.files[path] {
		return false, nil
	}
	delete(s.files, path)
	return true, nil
}

func (s *memShots) Stream(ctx context.Context, path string, w io.Writer) error {
	if !s.files[path] {
		return errors.NewNotFoundError("screenshot not found", nil)
	}
	return nil
}

func seedSweeper(t *testing.T, now time.Time) (*Sweeper, *memPings, *memSnapshots, *memShots) {
	t.Helper()
	pings := &memPings{}
	snapshots := &memSnapshots{}
	shots := newMemShots()

	// Two pings and one snapshot past the 45-day window, one of each inside it
	old := now.Add(-46 * 24 * time.Hour)
	fresh := now.Add(-time.Hour)

	pings.pings = append(pings.pings,
		&models.LivenessPing{ID: "hb_1", WorkerID: "w1", Timestamp: old},
		&models.LivenessPing{ID: "hb_2", WorkerID: "w1", Timestamp: old.Add(time.Minute)},
		&models.LivenessPing{ID: "hb_3", WorkerID: "w1", Timestamp: fresh},
	)
	snapshots.snapshots = append(snapshots.snapshots,
		&models.DetailedSnapshot{ID: "ds_1", WorkerID: "w1", Timestamp: old, ScreenshotPath: "w1/old.png"},
		&models.DetailedSnapshot{ID: "ds_2", WorkerID: "w1", Timestamp: fresh, ScreenshotPath: "w1/fresh.png"},
	)
	shots.files["w1/old.png"] = true
	shots.files["w1/fresh.png"] = true

	return New(pings, snapshots, shots, 45*24*time.Hour), pings, snapshots, shots
}

func TestSweepDeletesExpiredEvents(t *testing.T) {
	now := time.Date(2026, 8, 10, 3, 0, 0, 0, time.UTC)
	sweeper, pings, snapshots, shots := seedSweeper(t, now)

	result, err := sweeper.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if result.PingsDeleted != 2 {
		t.Errorf("Expected 2 pings deleted, got %d", result.PingsDeleted)
	}
	if result.SnapshotsDeleted != 1 {
		t.Errorf("Expected 1 snapshot deleted, got %d", result.SnapshotsDeleted)
	}
	if result.ImagesDeleted != 1 {
		t.Errorf("Expected 1 image deleted, got %d", result.ImagesDeleted)
	}

	if len(pings.pings) != 1 || pings.pings[0].ID != "hb_3" {
		t.Errorf("Expected only the fresh ping to survive, got %v", pings.pings)
	}
	if len(snapshots.snapshots) != 1 || snapshots.snapshots[0].ID != "ds_2" {
		t.Errorf("Expected only the fresh snapshot to survive, got %v", snapshots.snapshots)
	}
	if shots.files["w1/old.png"] {
		t.Error("Expected the expired screenshot file to be gone")
	}
	if !shots.files["w1/fresh.png"] {
		t.Error("Expected the fresh screenshot file to survive")
	}
	if pings.lastTx == nil || !pings.lastTx.committed {
		t.Error("Expected the row deletes to be committed")
	}
}

func TestSweepIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 10, 3, 0, 0, 0, time.UTC)
	sweeper, _, _, _ := seedSweeper(t, now)

	if _, err := sweeper.Sweep(context.Background(), now); err != nil {
		t.Fatalf("First sweep failed: %v", err)
	}
	result, err := sweeper.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Second sweep failed: %v", err)
	}
	if result.PingsDeleted != 0 || result.SnapshotsDeleted != 0 || result.ImagesDeleted != 0 {
		t.Errorf("Expected all-zero counts on a re-run, got %+v", result)
	}
}

func TestSweepToleratesMissingFile(t *testing.T) {
	now := time.Date(2026, 8, 10, 3, 0, 0, 0, time.UTC)
	sweeper, _, _, shots := seedSweeper(t, now)
	delete(shots.files, "w1/old.png")

	result, err := sweeper.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep must not fail on an already-missing file: %v", err)
	}
	if result.SnapshotsDeleted != 1 {
		t.Errorf("Expected the row to be deleted regardless, got %d", result.SnapshotsDeleted)
	}
	if result.ImagesDeleted != 0 {
		t.Errorf("A missing file must not count as deleted, got %d", result.ImagesDeleted)
	}
}

func TestSweepRetriesFileDeleteOnce(t *testing.T) {
	now := time.Date(2026, 8, 10, 3, 0, 0, 0, time.UTC)
	sweeper, _, _, shots := seedSweeper(t, now)
	shots.failures["w1/old.png"] = 1

	result, err := sweeper.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if result.ImagesDeleted != 1 {
		t.Errorf("Expected the retry to succeed, got %d images deleted", result.ImagesDeleted)
	}
	if shots.files["w1/old.png"] {
		t.Error("Expected the file to be gone after the retry")
	}
}

func TestSweepLeavesFileAfterPersistentFailure(t *testing.T) {
	now := time.Date(2026, 8, 10, 3, 0, 0, 0, time.UTC)
	sweeper, _, _, shots := seedSweeper(t, now)
	shots.failures["w1/old.png"] = 5

	result, err := sweeper.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("A stuck file must not fail the sweep: %v", err)
	}
	if result.ImagesDeleted != 0 {
		t.Errorf("Expected 0 images deleted, got %d", result.ImagesDeleted)
	}
	// Rows are gone either way; the file waits for a later pass
	if result.SnapshotsDeleted != 1 {
		t.Errorf("Expected the snapshot row deleted, got %d", result.SnapshotsDeleted)
	}
}

func TestOnSweepReportsCounts(t *testing.T) {
	now := time.Date(2026, 8, 10, 3, 0, 0, 0, time.UTC)
	sweeper, _, _, _ := seedSweeper(t, now)

	counts := make(chan int64, 3)
	sweeper.OnSweep("retention.pings", func(count int64) { counts <- count })

	if _, err := sweeper.Sweep(context.Background(), now); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	// Emission may be dispatched off the sweep goroutine
	select {
	case count := <-counts:
		if count != 2 {
			t.Errorf("Expected 2 deleted pings reported, got %d", count)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No retention event received")
	}
}
