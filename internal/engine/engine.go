// FilePath: internal/engine/engine.go
package engine

import (
	"time"

	"github.com/Basavaraj-fidelis/wfh/internal/cache"
	"github.com/Basavaraj-fidelis/wfh/internal/config"
	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	"github.com/Basavaraj-fidelis/wfh/internal/repository"
)

const dateFormat = "2006-01-02"

// Engine derives operational metrics from the stored event history: worker
// status, working hours, productivity and per-day activity rollups. All
// aggregates are recomputed from immutable events on every query; nothing
// here mutates store state.
type Engine struct {
	Pings       repository.PingRepository
	Snapshots   repository.SnapshotRepository
	Screenshots repository.ScreenshotStore

	cache    *cache.DayActivityCache
	cfg      config.MonitorConfig
	loc      *time.Location
	officeIP map[string]bool
}

// New creates an Engine. The monitor configuration must already be
// validated; New only resolves the derived lookups.
func New(
	pings repository.PingRepository,
	snapshots repository.SnapshotRepository,
	screenshots repository.ScreenshotStore,
	dayCache *cache.DayActivityCache,
	cfg config.MonitorConfig,
) (*Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, errors.NewInternalError("invalid engine timezone", err)
	}

	officeIP := make(map[string]bool, len(cfg.OfficeAddresses))
	for _, addr := range cfg.OfficeAddresses {
		officeIP[addr] = true
	}

	return &Engine{
		Pings:       pings,
		Snapshots:   snapshots,
		Screenshots: screenshots,
		cache:       dayCache,
		cfg:         cfg,
		loc:         loc,
		officeIP:    officeIP,
	}, nil
}

// Validate checks that all required repositories are wired
func (e *Engine) Validate() error {
	if e.Pings == nil {
		return ErrMissingRepository("pings")
	}
	if e.Snapshots == nil {
		return ErrMissingRepository("snapshots")
	}
	if e.Screenshots == nil {
		return ErrMissingRepository("screenshots")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

// dayBounds returns the half-open interval [start, end) of the local
// calendar day containing t, in the engine timezone.
func (e *Engine) dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(e.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, e.loc)
	return start, start.AddDate(0, 0, 1)
}

func (e *Engine) dayKey(t time.Time) string {
	return t.In(e.loc).Format(dateFormat)
}
