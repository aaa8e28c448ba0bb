package controllerImp

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reien/database"
	"reien/pkg/inventory/repositoryImp"
	svc "reien/pkg/inventory/service"
	"reien/pkg/inventory/serviceImp"
)

type healthBody struct {
	Status struct {
		OK bool `json:"ok"`
	} `json:"status"`
	Mode   string           `json:"mode"`
	Checks map[string]check `json:"checks"`
}

func probe(t *testing.T, h *HealthCtrl) (int, healthBody) {
	t.Helper()
	e := echo.New()
	e.GET("/health", h.Health)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHealth_StaticWithoutDB(t *testing.T) {
	code, body := probe(t, NewHealthCtrl(nil, serviceImp.New(svc.ModeStatic, nil, nil, quietLogger())))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Status.OK)
	assert.Equal(t, "static", body.Mode)
	assert.True(t, body.Checks["database"].Skipped)
	assert.True(t, body.Checks["inventory"].OK)
}

func TestHealth_DBMode(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	s := serviceImp.New(svc.ModeDB, repositoryImp.New(db), nil, quietLogger())
	h := NewHealthCtrl(db, s)

	code, body := probe(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.True(t, body.Checks["database"].OK)
	assert.False(t, body.Checks["inventory"].OK)
	assert.Contains(t, body.Checks["inventory"].Err, "seed")

	_, err = s.Seed(t.Context())
	require.NoError(t, err)

	code, body = probe(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Status.OK)
}

func TestHealth_DBModeWithoutDB(t *testing.T) {
	code, body := probe(t, NewHealthCtrl(nil, serviceImp.New(svc.ModeDB, nil, nil, quietLogger())))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "gorm db is nil", body.Checks["database"].Err)
}
