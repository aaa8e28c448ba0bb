package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	healthCtrlImp "reien/pkg/health/controllerImp"
	invCtrlImp "reien/pkg/inventory/controllerImp"
	svc "reien/pkg/inventory/service"
	"reien/pkg/inventory/serviceImp"
)

func TestNew_Routes(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := serviceImp.New(svc.ModeStatic, nil, nil, log)
	e := New(echo.New(), log, invCtrlImp.New(s, log), healthCtrlImp.NewHealthCtrl(nil, s))

	for _, path := range []string{"/health", "/metrics", "/api/v1/inventory/summary", "/api/v1/inventory/areas/groups?by=type"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID), path)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fields/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNew_LogsHandlerErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	s := serviceImp.New(svc.ModeStatic, nil, nil, log)
	e := New(echo.New(), log, invCtrlImp.New(s, log), healthCtrlImp.NewHealthCtrl(nil, s))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Contains(t, entry["err"], "Not Found")
}
