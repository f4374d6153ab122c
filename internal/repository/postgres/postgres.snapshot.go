// FilePath: internal/repository/postgres/postgres.snapshot.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/database"
	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	"github.com/Basavaraj-fidelis/wfh/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

type SnapshotRepo struct {
	PostgresBaseRepo
}

func NewSnapshotRepository(db database.DB) (*SnapshotRepo, error) {
	repo := &SnapshotRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *SnapshotRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS detailed_snapshots (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL,
			source_host TEXT NOT NULL DEFAULT '',
			local_ip TEXT NOT NULL DEFAULT '',
			public_ip TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			activity JSONB NOT NULL DEFAULT '{}',
			screenshot_path TEXT NOT NULL DEFAULT '',
			timestamp TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_detailed_snapshots_worker_timestamp
         ON detailed_snapshots(worker_id, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_detailed_snapshots_timestamp
         ON detailed_snapshots(timestamp)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize snapshot schema", err)
		}
	}
	return nil
}

func (r *SnapshotRepo) Append(ctx context.Context, snapshot *models.DetailedSnapshot) error {
	if snapshot.WorkerID == "" || snapshot.Timestamp.IsZero() {
		return errors.NewValidationError("snapshot requires worker_id and timestamp", nil)
	}
	if snapshot.ID == "" {
		snapshot.ID = nuts.NID("ds", 12)
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}
	if len(snapshot.Activity) == 0 {
		snapshot.Activity = []byte("{}")
	}

	query := `
		INSERT INTO detailed_snapshots (
			id, worker_id, source_host, local_ip, public_ip,
			location, activity, screenshot_path, timestamp, created_at
		) VALUES (
			:id, :worker_id, :source_host, :local_ip, :public_ip,
			:location, :activity, :screenshot_path, :timestamp, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, snapshot)
	if err != nil {
		return errors.NewDatabaseError("failed to append detailed snapshot", err)
	}
	return nil
}

func (r *SnapshotRepo) QueryRange(ctx context.Context, workerID string, start, end time.Time) ([]*models.DetailedSnapshot, error) {
	snapshots := []*models.DetailedSnapshot{}
	query := `
		SELECT id, worker_id, source_host, local_ip, public_ip,
		       location, activity, screenshot_path, timestamp, created_at
		FROM detailed_snapshots
		WHERE worker_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp ASC`

	err := r.db.GetDB().SelectContext(ctx, &snapshots, query, workerID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to query detailed snapshots", err)
	}
	return snapshots, nil
}

func (r *SnapshotRepo) Get(ctx context.Context, id string) (*models.DetailedSnapshot, error) {
	snapshot := &models.DetailedSnapshot{}
	query := `
		SELECT id, worker_id, source_host, local_ip, public_ip,
		       location, activity, screenshot_path, timestamp, created_at
		FROM detailed_snapshots
		WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, snapshot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("snapshot not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get snapshot", err)
	}
	return snapshot, nil
}

func (r *SnapshotRepo) ListPathsBefore(ctx context.Context, before time.Time) ([]string, error) {
	paths := []string{}
	query := `
		SELECT screenshot_path
		FROM detailed_snapshots
		WHERE timestamp < $1 AND screenshot_path <> ''`

	err := r.db.GetDB().SelectContext(ctx, &paths, query, before)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list screenshot paths", err)
	}
	return paths, nil
}

func (r *SnapshotRepo) DeleteBefore(ctx context.Context, before time.Time, tx database.Transaction) (int64, error) {
	query := `DELETE FROM detailed_snapshots WHERE timestamp < $1`

	result, err := tx.ExecContext(ctx, query, before)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete old snapshots", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[SnapshotRepo] Deleted %d detailed snapshots before %v", rows, before)
	return rows, nil
}
