package controllerImp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	svc "reien/pkg/inventory/service"
)

var appStart = time.Now()

const probeTimeout = 800 * time.Millisecond

type HealthCtrl struct {
	db  *gorm.DB
	inv svc.InventoryService
}

// NewHealthCtrl accepts a nil db when the inventory runs without a store.
func NewHealthCtrl(db *gorm.DB, inv svc.InventoryService) *HealthCtrl {
	return &HealthCtrl{db: db, inv: inv}
}

type check struct {
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Err     string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	db := h.checkDB(ctx)
	inv := h.checkInventory(ctx)

	allOK := db.OK && inv.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database":  db,
			"inventory": inv,
		},
		"time": time.Now().Format(time.RFC3339),
	}
	if h.inv != nil {
		resp["mode"] = h.inv.Mode()
	}
	return c.JSON(status, resp)
}

func (h *HealthCtrl) checkDB(ctx context.Context) check {
	if h.db == nil {
		if h.inv != nil && h.inv.Mode() == svc.ModeDB {
			return check{Err: "gorm db is nil"}
		}
		return check{OK: true, Skipped: true}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	return check{OK: true}
}

func (h *HealthCtrl) checkInventory(ctx context.Context) check {
	if h.inv == nil {
		return check{Err: "inventory service is nil"}
	}
	ds, err := h.inv.Snapshot(ctx)
	switch {
	case errors.Is(err, svc.ErrEmptySnapshot):
		return check{Err: "empty: run seed or import"}
	case err != nil:
		return check{Err: err.Error()}
	case len(ds.PlotInventory()) == 0:
		return check{Err: "no plot records"}
	}
	return check{OK: true}
}
