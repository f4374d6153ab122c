// FilePath: internal/repository/postgres/postgres.ping.go
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

type PingRepo struct {
	PostgresBaseRepo
}

func NewPingRepository(db database.DB) (*PingRepo, error) {
	repo := &PingRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *PingRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS liveness_pings (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL,
			source_host TEXT NOT NULL DEFAULT '',
			reported_status TEXT NOT NULL DEFAULT 'online',
			timestamp TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_liveness_pings_worker_timestamp
         ON liveness_pings(worker_id, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_liveness_pings_timestamp
         ON liveness_pings(timestamp)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize ping schema", err)
		}
	}
	return nil
}

func (r *PingRepo) Append(ctx context.Context, ping *models.LivenessPing) error {
	if ping.WorkerID == "" || ping.Timestamp.IsZero() {
		return errors.NewValidationError("ping requires worker_id and timestamp", nil)
	}
	if ping.ID == "" {
		ping.ID = nuts.NID("hb", 12)
	}
	if ping.CreatedAt.IsZero() {
		ping.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO liveness_pings (id, worker_id, source_host, reported_status, timestamp, created_at)
		VALUES (:id, :worker_id, :source_host, :reported_status, :timestamp, :created_at)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, ping)
	if err != nil {
		return errors.NewDatabaseError("failed to append liveness ping", err)
	}
	return nil
}

func (r *PingRepo) QueryRange(ctx context.Context, workerID string, start, end time.Time) ([]*models.LivenessPing, error) {
	pings := []*models.LivenessPing{}
	query := `
		SELECT id, worker_id, source_host, reported_status, timestamp, created_at
		FROM liveness_pings
		WHERE worker_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp ASC`

	err := r.db.GetDB().SelectContext(ctx, &pings, query, workerID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to query liveness pings", err)
	}
	return pings, nil
}

func (r *PingRepo) Latest(ctx context.Context, workerID string) (*models.LivenessPing, error) {
	ping := &models.LivenessPing{}
	query := `
		SELECT id, worker_id, source_host, reported_status, timestamp, created_at
		FROM liveness_pings
		WHERE worker_id = $1
		ORDER BY timestamp DESC
		LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, ping, query, workerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("no pings for worker", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest ping", err)
	}
	return ping, nil
}

func (r *PingRepo) LatestPerWorker(ctx context.Context) ([]*models.LivenessPing, error) {
	// Window function keeps this a single scan over the worker index
	query := `
        WITH RankedPings AS (
            SELECT id, worker_id, source_host, reported_status, timestamp, created_at,
                   ROW_NUMBER() OVER (PARTITION BY worker_id ORDER BY timestamp DESC) as rn
            FROM liveness_pings
        )
        SELECT id, worker_id, source_host, reported_status, timestamp, created_at
        FROM RankedPings
        WHERE rn = 1
        ORDER BY worker_id`

	pings := []*models.LivenessPing{}
	err := r.db.GetDB().SelectContext(ctx, &pings, query)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list latest pings", err)
	}
	return pings, nil
}

func (r *PingRepo) DeleteBefore(ctx context.Context, before time.Time, tx database.Transaction) (int64, error) {
	query := `DELETE FROM liveness_pings WHERE timestamp < $1`

	result, err := tx.ExecContext(ctx, query, before)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete old pings", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[PingRepo] Deleted %d liveness pings before %v", rows, before)
	return rows, nil
}
