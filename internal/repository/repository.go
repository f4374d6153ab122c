// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/database"
	"github.com/Basavaraj-fidelis/wfh/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// PingRepository stores liveness pings. Pings are append-only; the only
// delete path is the retention sweeper.
type PingRepository interface {
	database.Repository
	Append(ctx context.Context, ping *models.LivenessPing) error
	// QueryRange returns pings for a worker in the half-open interval
	// [start, end), ordered by timestamp ascending. An empty result is not
	// an error.
	QueryRange(ctx context.Context, workerID string, start, end time.Time) ([]*models.LivenessPing, error)
	// Latest returns the most recent ping for a worker, or ErrNotFound.
	Latest(ctx context.Context, workerID string) (*models.LivenessPing, error)
	// LatestPerWorker returns the most recent ping of every known worker.
	LatestPerWorker(ctx context.Context) ([]*models.LivenessPing, error)
	// DeleteBefore removes pings older than the cutoff within tx and
	// returns the number of rows removed.
	DeleteBefore(ctx context.Context, before time.Time, tx database.Transaction) (int64, error)
}

// SnapshotRepository stores detailed activity snapshots. Same append-only
// discipline as pings.
type SnapshotRepository interface {
	database.Repository
	Append(ctx context.Context, snapshot *models.DetailedSnapshot) error
	QueryRange(ctx context.Context, workerID string, start, end time.Time) ([]*models.DetailedSnapshot, error)
	Get(ctx context.Context, id string) (*models.DetailedSnapshot, error)
	// ListPathsBefore returns the screenshot paths of snapshots older than
	// the cutoff, so the sweeper can remove the files after the rows.
	ListPathsBefore(ctx context.Context, before time.Time) ([]string, error)
	DeleteBefore(ctx context.Context, before time.Time, tx database.Transaction) (int64, error)
}

// ScreenshotStore holds the screenshot bytes referenced by snapshots. The
// engine only ever sees opaque relative paths.
type ScreenshotStore interface {
	Save(ctx context.Context, workerID string, timestamp time.Time, src io.Reader) (string, error)
	// Delete removes a stored screenshot. A missing file reports found=false
	// without an error so retention re-runs stay idempotent.
	Delete(ctx context.Context, path string) (found bool, err error)
	Stream(ctx context.Context, path string, w io.Writer) error
}
