package serviceImp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reien/database"
	"reien/entities"
	"reien/pkg/inventory"
	"reien/pkg/inventory/repository"
	"reien/pkg/inventory/repositoryImp"
	svc "reien/pkg/inventory/service"
	"reien/pkg/inventory/workbook"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newRepo(t *testing.T) repository.InventoryRepository {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repositoryImp.New(db)
}

type fakeSource struct {
	ds  *inventory.Dataset
	err error
}

func (f fakeSource) Load(context.Context) (*inventory.Dataset, error) { return f.ds, f.err }

func TestSnapshot_Static(t *testing.T) {
	s := New(svc.ModeStatic, nil, nil, quietLogger())
	ds, err := s.Snapshot(t.Context())
	require.NoError(t, err)
	assert.Same(t, inventory.Static(), ds)
	assert.Equal(t, svc.ModeStatic, s.Mode())
}

func TestSnapshot_DBRequiresSeed(t *testing.T) {
	repo := newRepo(t)
	s := New(svc.ModeDB, repo, nil, quietLogger())

	_, err := s.Snapshot(t.Context())
	assert.ErrorIs(t, err, svc.ErrEmptySnapshot)

	res, err := s.Seed(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 38, res.Plots)
	assert.Equal(t, 17, res.PlotsByArea)
	assert.Len(t, res.Discrepancies, 3)

	ds, err := s.Snapshot(t.Context())
	require.NoError(t, err)
	static := inventory.Static()
	assert.Equal(t, static.InventorySummary(), ds.InventorySummary())
	assert.Equal(t, static.AllPeriodSummaries(), ds.AllPeriodSummaries())
	assert.Equal(t, static.AllPeriodAreaSummaries(), ds.AllPeriodAreaSummaries())
	assert.Equal(t, static.GroupedByType(), ds.GroupedByType())
	assert.Equal(t, static.BySections(), ds.BySections())
}

func TestImport_ReplacesStoredSnapshot(t *testing.T) {
	repo := newRepo(t)
	s := New(svc.ModeDB, repo, nil, quietLogger())
	_, err := s.Seed(t.Context())
	require.NoError(t, err)

	small := inventory.NewDataset(
		[]entities.PlotInventoryItem{
			{Period: entities.Period1, Section: "A", TotalCount: 149, UsedCount: 138, RemainingCount: 11},
			{Period: entities.Period1, Section: "B", TotalCount: 6, UsedCount: 6, RemainingCount: 0},
		},
		[]entities.PlotByAreaItem{
			{Period: entities.Period1, AreaSqm: 2.16, TotalCount: 5, UsedCount: 12, RemainingCount: 3, RemainingAreaSqm: 6.48, PlotType: "自由墓所"},
		},
		"2024年10月末時点",
	)
	var buf bytes.Buffer
	require.NoError(t, workbook.Export(&buf, small))

	res, err := s.Import(t.Context(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Plots)
	assert.Equal(t, "2024年10月末時点", res.LastUpdated)
	require.Len(t, res.Discrepancies, 1)

	ds, err := s.Snapshot(t.Context())
	require.NoError(t, err)
	inv := ds.InventorySummary()
	assert.Equal(t, inventory.Summary{TotalCount: 155, UsedCount: 144, RemainingCount: 11, UsageRate: 92.9}, inv.Summary)
	assert.Equal(t, "2024年10月末時点", inv.LastUpdated)
}

func TestImport_InvalidWorkbookKeepsStore(t *testing.T) {
	repo := newRepo(t)
	s := New(svc.ModeDB, repo, nil, quietLogger())
	_, err := s.Seed(t.Context())
	require.NoError(t, err)

	_, err = s.Import(t.Context(), bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)

	plots, _, err := repo.Counts(t.Context())
	require.NoError(t, err)
	assert.EqualValues(t, 38, plots)
}

func TestNoStore(t *testing.T) {
	s := New(svc.ModeStatic, nil, nil, quietLogger())
	_, err := s.Seed(t.Context())
	assert.ErrorIs(t, err, svc.ErrNoStore)
	_, err = s.Import(t.Context(), bytes.NewReader(nil))
	assert.ErrorIs(t, err, svc.ErrNoStore)

	_, err = New(svc.ModeDB, nil, nil, quietLogger()).Snapshot(t.Context())
	assert.ErrorIs(t, err, svc.ErrNoStore)
}

func TestSnapshot_Remote(t *testing.T) {
	want := inventory.NewDataset(nil, nil, "remote")
	s := New(svc.ModeRemote, nil, fakeSource{ds: want}, quietLogger())
	ds, err := s.Snapshot(t.Context())
	require.NoError(t, err)
	assert.Same(t, want, ds)

	boom := errors.New("boom")
	s = New(svc.ModeRemote, nil, fakeSource{err: boom}, quietLogger())
	_, err = s.Discrepancies(t.Context())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, svc.ErrRemote)
}

func TestExport(t *testing.T) {
	s := New(svc.ModeStatic, nil, nil, quietLogger())
	var buf bytes.Buffer
	require.NoError(t, s.Export(t.Context(), &buf))

	ds, err := workbook.Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, inventory.CalculateInventorySummary(), ds.InventorySummary())
}

func TestSnapshot_UnknownMode(t *testing.T) {
	_, err := New("csv", nil, nil, quietLogger()).Snapshot(t.Context())
	assert.ErrorContains(t, err, `unknown inventory mode "csv"`)
}
