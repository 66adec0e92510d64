package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/contractlens/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleResult(contractType string, risk model.RiskLevel) *model.AnalysisResult {
	return &model.AnalysisResult{
		ContractType: contractType,
		Language:     "english",
		Entities:     model.NewEntities(),
		Clauses: map[string][]model.Clause{
			"payment": {{Category: "payment", Text: "The client shall pay within 30 days", Subclauses: []string{}, RiskLevel: model.RiskLow}},
		},
		ClauseRisks:   map[string]model.RiskLevel{"payment": model.RiskLow},
		CompositeRisk: risk,
		Summary:       "This service agreement is between A and B.",
		Suggestions:   "Always consult legal counsel for important contracts.",
		SummarySource: model.SourceRuleBased,
	}
}

func TestSQLite_SaveAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec, err := st.Save(ctx, "contract.pdf", sampleResult("service", model.RiskMedium))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	got, err := st.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "contract.pdf", got.Source)
	assert.Equal(t, "service", got.ContractType)
	assert.Equal(t, model.RiskMedium, got.Risk)
	require.NotNil(t, got.Result)
	assert.Equal(t, model.RiskMedium, got.Result.CompositeRisk)
	assert.Equal(t, "The client shall pay within 30 days", got.Result.Clauses["payment"][0].Text)
	assert.WithinDuration(t, rec.AnalyzedAt, got.AnalyzedAt, 1e9)
}

func TestSQLite_GetMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.Get(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_SaveNil(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.Save(context.Background(), "x", nil)
	assert.Error(t, err)
}

func TestSQLite_List(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.Save(ctx, "a.txt", sampleResult("service", model.RiskLow))
	require.NoError(t, err)
	_, err = st.Save(ctx, "b.txt", sampleResult("lease", model.RiskHigh))
	require.NoError(t, err)
	_, err = st.Save(ctx, "c.txt", sampleResult("service", model.RiskHigh))
	require.NoError(t, err)

	all, err := st.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c.txt", all[0].Source)
	assert.Nil(t, all[0].Result)

	services, err := st.List(ctx, Filter{ContractType: "service"})
	require.NoError(t, err)
	assert.Len(t, services, 2)

	high, err := st.List(ctx, Filter{MinRisk: model.RiskHigh})
	require.NoError(t, err)
	assert.Len(t, high, 2)

	limited, err := st.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_ListEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)

	records, err := st.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSQLite_Delete(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec, err := st.Save(ctx, "a.txt", sampleResult("service", model.RiskLow))
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, rec.ID))
	_, err = st.Get(ctx, rec.ID)
	assert.True(t, eris.Is(err, ErrNotFound))

	assert.True(t, eris.Is(st.Delete(ctx, rec.ID), ErrNotFound))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	st, err := Open(ctx, model.StoreConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, st)

	path := filepath.Join(t.TempDir(), "nested", "history.db")
	st, err = Open(ctx, model.StoreConfig{Enabled: true, Path: path})
	require.NoError(t, err)
	require.NotNil(t, st)
	defer st.Close() //nolint:errcheck

	_, err = st.Save(ctx, "x.txt", sampleResult("general", model.RiskLow))
	assert.NoError(t, err)
}
