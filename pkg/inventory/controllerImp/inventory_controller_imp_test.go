package controllerImp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reien/database"
	"reien/pkg/inventory"
	"reien/pkg/inventory/repositoryImp"
	svc "reien/pkg/inventory/service"
	"reien/pkg/inventory/serviceImp"
	"reien/pkg/inventory/workbook"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newServer(s svc.InventoryService) *echo.Echo {
	e := echo.New()
	New(s, quietLogger()).Register(e)
	return e
}

func get(t *testing.T, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func staticServer() *echo.Echo {
	return newServer(serviceImp.New(svc.ModeStatic, nil, nil, quietLogger()))
}

func TestSummary(t *testing.T) {
	rec := get(t, staticServer(), "/api/v1/inventory/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[inventory.InventorySummary](t, rec)
	assert.Equal(t, 2730, got.TotalCount)
	assert.Equal(t, 2261, got.UsedCount)
	assert.Equal(t, 470, got.RemainingCount)
	assert.Equal(t, 82.8, got.UsageRate)
	assert.Equal(t, inventory.LastUpdated, got.LastUpdated)
}

func TestPeriod(t *testing.T) {
	e := staticServer()
	for _, target := range []string{
		"/api/v1/inventory/periods/1%E6%9C%9F",
		"/api/v1/inventory/periods/1",
		"/api/v1/inventory/periods/period-1",
	} {
		rec := get(t, e, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		got := decode[inventory.PeriodSummary](t, rec)
		assert.Equal(t, 946, got.TotalCount, target)
		assert.Equal(t, 94.6, got.UsageRate, target)
	}

	rec := get(t, e, "/api/v1/inventory/periods/9")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[inventory.PeriodSummary](t, rec)
	assert.Zero(t, got.TotalCount)
	assert.Zero(t, got.UsageRate)

	rec = get(t, e, "/api/v1/inventory/periods/9/plots")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPeriods(t *testing.T) {
	rec := get(t, staticServer(), "/api/v1/inventory/periods")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]inventory.PeriodSummary](t, rec)
	require.Len(t, got, 4)
	assert.EqualValues(t, "4期", got[3].Period)
	assert.Equal(t, 26.3, got[3].UsageRate)
}

func TestPlots_Status(t *testing.T) {
	e := staticServer()
	cases := map[string]int{"": 38, "available": 28, "sold-out": 10}
	for status, want := range cases {
		rec := get(t, e, "/api/v1/inventory/plots?status="+status)
		require.Equal(t, http.StatusOK, rec.Code, status)
		assert.Len(t, decode[[]map[string]any](t, rec), want, status)
	}

	rec := get(t, e, "/api/v1/inventory/plots?status=reserved")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status must be")
}

func TestSortedPlots(t *testing.T) {
	e := staticServer()

	rec := get(t, e, "/api/v1/inventory/plots/sorted?by=remaining&order=desc")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]map[string]any](t, rec)
	require.NotEmpty(t, rows)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1]["remainingCount"], rows[i]["remainingCount"])
	}

	rec = get(t, e, "/api/v1/inventory/plots/sorted?order=asc")
	require.Equal(t, http.StatusOK, rec.Code)
	rated := decode[[]inventory.RatedPlot](t, rec)
	for i := 1; i < len(rated); i++ {
		assert.LessOrEqual(t, rated[i-1].UsageRate, rated[i].UsageRate)
	}

	assert.Equal(t, http.StatusBadRequest, get(t, e, "/api/v1/inventory/plots/sorted?by=name").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, e, "/api/v1/inventory/plots/sorted?order=up").Code)
}

func TestAreaEndpoints(t *testing.T) {
	e := staticServer()

	rec := get(t, e, "/api/v1/inventory/areas")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 17)

	rec = get(t, e, "/api/v1/inventory/areas/periods")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]inventory.PeriodAreaSummary](t, rec), 4)

	rec = get(t, e, "/api/v1/inventory/areas/periods/2/plots")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 4)

	rec = get(t, e, "/api/v1/inventory/areas/groups?by=type")
	require.Equal(t, http.StatusOK, rec.Code)
	types := decode[[]inventory.TypeGroup](t, rec)
	require.NotEmpty(t, types)
	for i := 1; i < len(types); i++ {
		assert.GreaterOrEqual(t, types[i-1].RemainingCount, types[i].RemainingCount)
	}

	rec = get(t, e, "/api/v1/inventory/areas/groups")
	require.Equal(t, http.StatusOK, rec.Code)
	areas := decode[[]inventory.AreaGroup](t, rec)
	for i := 1; i < len(areas); i++ {
		assert.Less(t, areas[i-1].AreaSqm, areas[i].AreaSqm)
	}

	assert.Equal(t, http.StatusBadRequest, get(t, e, "/api/v1/inventory/areas/groups?by=price").Code)
}

func TestSizesAndSections(t *testing.T) {
	e := staticServer()

	rec := get(t, e, "/api/v1/inventory/sizes")
	require.Equal(t, http.StatusOK, rec.Code)
	sizes := decode[[]inventory.SizeRow](t, rec)
	require.Len(t, sizes, 2)
	assert.Equal(t, "full", sizes[0].Size)
	assert.Equal(t, "half", sizes[1].Size)

	rec = get(t, e, "/api/v1/inventory/sections")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]inventory.SectionRow](t, rec), 38)
}

func TestDiscrepancies(t *testing.T) {
	rec := get(t, staticServer(), "/api/v1/inventory/discrepancies")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]inventory.Discrepancy](t, rec)
	assert.Len(t, got, 3)
}

type stubService struct {
	svc.InventoryService
	err error
}

func (s stubService) Snapshot(context.Context) (*inventory.Dataset, error) { return nil, s.err }

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{svc.ErrEmptySnapshot, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: dial tcp: refused", svc.ErrRemote), http.StatusBadGateway},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := get(t, newServer(stubService{err: tc.err}), "/api/v1/inventory/summary")
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		assert.Equal(t, tc.err.Error(), decode[map[string]string](t, rec)["error"])
	}
}

func TestExport(t *testing.T) {
	rec := get(t, staticServer(), "/api/v1/inventory/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "spreadsheetml")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "plot-inventory-")

	ds, err := workbook.Import(rec.Body)
	require.NoError(t, err)
	assert.Len(t, ds.PlotInventory(), 38)
}

func upload(t *testing.T, e *echo.Echo, field string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "inventory.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/import", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestImport(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	e := newServer(serviceImp.New(svc.ModeDB, repositoryImp.New(db), nil, quietLogger()))

	assert.Equal(t, http.StatusServiceUnavailable, get(t, e, "/api/v1/inventory/summary").Code)

	var book bytes.Buffer
	require.NoError(t, workbook.Export(&book, inventory.Static()))

	rec := upload(t, e, "file", book.Bytes())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[svc.ImportResult](t, rec)
	assert.Equal(t, 38, res.Plots)
	assert.Equal(t, 17, res.PlotsByArea)
	assert.Len(t, res.Discrepancies, 3)

	rec = get(t, e, "/api/v1/inventory/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2730, decode[inventory.InventorySummary](t, rec).TotalCount)

	assert.Equal(t, http.StatusBadRequest, upload(t, e, "upload", book.Bytes()).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, upload(t, e, "file", []byte("not a workbook")).Code)
}

func TestImport_StaticModeHasNoStore(t *testing.T) {
	var book bytes.Buffer
	require.NoError(t, workbook.Export(&book, inventory.Static()))
	rec := upload(t, staticServer(), "file", book.Bytes())
	assert.Equal(t, http.StatusConflict, rec.Code)
}
