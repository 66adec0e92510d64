// Package store keeps a history of completed analyses so they can be listed
// and re-rendered later without re-running the engine.
package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/contractlens/internal/model"
)

// ErrNotFound is returned when no analysis has the requested id
var ErrNotFound = eris.New("store: analysis not found")

// Record is one stored analysis with its bookkeeping fields
type Record struct {
	ID           string                `json:"id"`
	Source       string                `json:"source"`
	ContractType string                `json:"contract_type"`
	Risk         model.RiskLevel       `json:"risk"`
	AnalyzedAt   time.Time             `json:"analyzed_at"`
	Result       *model.AnalysisResult `json:"result,omitempty"`
}

// Filter narrows List results
type Filter struct {
	ContractType string
	MinRisk      model.RiskLevel // Zero means any level
	Limit        int             // Zero means 50
}

// Store persists analysis history
type Store interface {
	Migrate(ctx context.Context) error
	Save(ctx context.Context, source string, res *model.AnalysisResult) (*Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter Filter) ([]Record, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns a migrated store for cfg, or nil when history is disabled
func Open(ctx context.Context, cfg model.StoreConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "store: create %s", dir)
		}
	}

	st, err := NewSQLite(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}
