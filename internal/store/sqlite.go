package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/contractlens/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id            TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	contract_type TEXT NOT NULL,
	risk          INTEGER NOT NULL,
	result        TEXT NOT NULL,
	analyzed_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_type ON analyses(contract_type);
CREATE INDEX IF NOT EXISTS idx_analyses_analyzed_at ON analyses(analyzed_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, source string, res *model.AnalysisResult) (*Record, error) {
	if res == nil {
		return nil, eris.New("sqlite: nil analysis")
	}

	resultJSON, err := json.Marshal(res)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal analysis")
	}

	rec := &Record{
		ID:           uuid.New().String(),
		Source:       source,
		ContractType: res.ContractType,
		Risk:         res.CompositeRisk,
		AnalyzedAt:   time.Now().UTC(),
		Result:       res,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, source, contract_type, risk, result, analyzed_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.ContractType, int(rec.Risk), string(resultJSON), rec.AnalyzedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert analysis")
	}
	return rec, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, contract_type, risk, analyzed_at, result FROM analyses WHERE id = ?`,
		id,
	)
	return scanRecord(row, true)
}

// List returns the newest records first, without their full results
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := `SELECT id, source, contract_type, risk, analyzed_at FROM analyses WHERE 1=1`
	var args []any

	if filter.ContractType != "" {
		query += ` AND contract_type = ?`
		args = append(args, filter.ContractType)
	}
	if filter.MinRisk > 0 {
		query += ` AND risk >= ?`
		args = append(args, int(filter.MinRisk))
	}
	query += ` ORDER BY analyzed_at DESC, rowid DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows, false)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list analyses iterate")
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete analysis %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable, withResult bool) (*Record, error) {
	var r Record
	var risk int
	var resultJSON string

	dest := []any{&r.ID, &r.Source, &r.ContractType, &risk, &r.AnalyzedAt}
	if withResult {
		dest = append(dest, &resultJSON)
	}

	err := row.Scan(dest...)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan analysis")
	}
	r.Risk = model.RiskLevel(risk)

	if withResult {
		r.Result = &model.AnalysisResult{}
		if err := json.Unmarshal([]byte(resultJSON), r.Result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
		}
	}
	return &r, nil
}
