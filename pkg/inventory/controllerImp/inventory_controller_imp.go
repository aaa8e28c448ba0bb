package controllerImp

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"reien/entities"
	"reien/pkg/inventory"
	"reien/pkg/inventory/controller"
	svc "reien/pkg/inventory/service"
	"reien/pkg/inventory/workbook"
)

const maxUploadBytes = 8 << 20

type InventoryCtrl struct {
	s   svc.InventoryService
	log *slog.Logger
}

var _ controller.InventoryController = (*InventoryCtrl)(nil)

func New(s svc.InventoryService, log *slog.Logger) *InventoryCtrl {
	if log == nil {
		log = slog.Default()
	}
	return &InventoryCtrl{s: s, log: log}
}

// Register mounts the inventory API under /api/v1/inventory.
func (h *InventoryCtrl) Register(e *echo.Echo) {
	g := e.Group("/api/v1/inventory")
	g.GET("/summary", h.Summary)
	g.GET("/periods", h.Periods)
	g.GET("/periods/:period", h.Period)
	g.GET("/periods/:period/plots", h.PeriodPlots)
	g.GET("/plots", h.Plots)
	g.GET("/plots/sorted", h.SortedPlots)
	g.GET("/sections", h.Sections)
	g.GET("/sizes", h.Sizes)
	g.GET("/areas", h.Areas)
	g.GET("/areas/summary", h.AreaSummary)
	g.GET("/areas/periods", h.AreaPeriods)
	g.GET("/areas/periods/:period", h.AreaPeriod)
	g.GET("/areas/periods/:period/plots", h.AreaPeriodPlots)
	g.GET("/areas/groups", h.AreaGroups)
	g.GET("/discrepancies", h.Discrepancies)
	g.GET("/export.xlsx", h.Export)
	g.POST("/import", h.Import)
}

func (h *InventoryCtrl) snapshot(c echo.Context) (*inventory.Dataset, error) {
	return h.s.Snapshot(c.Request().Context())
}

func (h *InventoryCtrl) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, svc.ErrEmptySnapshot):
		status = http.StatusServiceUnavailable
	case errors.Is(err, svc.ErrNoStore):
		status = http.StatusConflict
	case errors.Is(err, svc.ErrRemote):
		status = http.StatusBadGateway
	case errors.Is(err, workbook.ErrInvalidRow), errors.Is(err, workbook.ErrInvalidWorkbook):
		status = http.StatusUnprocessableEntity
	}
	if status >= 500 {
		h.log.Error("inventory request failed", "path", c.Path(), "err", err)
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// period parses :period. Unknown periods are passed through so they yield
// zero summaries and empty lists like any other unknown key.
func period(c echo.Context) entities.Period {
	raw := c.Param("period")
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	if p, ok := entities.ParsePeriod(raw); ok {
		return p
	}
	return entities.Period(raw)
}

func ascending(c echo.Context) (bool, error) {
	switch c.QueryParam("order") {
	case "", "desc":
		return false, nil
	case "asc":
		return true, nil
	}
	return false, fmt.Errorf("order must be asc or desc")
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

func (h *InventoryCtrl) Summary(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.InventorySummary())
}

func (h *InventoryCtrl) Periods(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.AllPeriodSummaries())
}

func (h *InventoryCtrl) Period(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.PeriodSummary(period(c)))
}

func (h *InventoryCtrl) PeriodPlots(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.PlotInventoryByPeriod(period(c)))
}

func (h *InventoryCtrl) Plots(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	switch c.QueryParam("status") {
	case "":
		return c.JSON(http.StatusOK, ds.PlotInventory())
	case "available":
		return c.JSON(http.StatusOK, ds.AvailablePlots())
	case "sold-out":
		return c.JSON(http.StatusOK, ds.SoldOutPlots())
	}
	return badRequest(c, fmt.Errorf("status must be available or sold-out"))
}

func (h *InventoryCtrl) SortedPlots(c echo.Context) error {
	asc, err := ascending(c)
	if err != nil {
		return badRequest(c, err)
	}
	by := c.QueryParam("by")
	if by != "" && by != "usage" && by != "remaining" {
		return badRequest(c, fmt.Errorf("by must be usage or remaining"))
	}
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	if by == "remaining" {
		return c.JSON(http.StatusOK, ds.SortedByRemaining(asc))
	}
	return c.JSON(http.StatusOK, ds.SortedByUsageRate(asc))
}

func (h *InventoryCtrl) Sections(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.BySections())
}

func (h *InventoryCtrl) Sizes(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.BySize())
}

func (h *InventoryCtrl) Areas(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	switch c.QueryParam("status") {
	case "":
		return c.JSON(http.StatusOK, ds.PlotsByArea())
	case "available":
		return c.JSON(http.StatusOK, ds.AvailablePlotsByArea())
	case "sold-out":
		return c.JSON(http.StatusOK, ds.SoldOutPlotsByArea())
	}
	return badRequest(c, fmt.Errorf("status must be available or sold-out"))
}

func (h *InventoryCtrl) AreaSummary(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.TotalAreaSummary())
}

func (h *InventoryCtrl) AreaPeriods(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.AllPeriodAreaSummaries())
}

func (h *InventoryCtrl) AreaPeriod(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.PeriodAreaSummary(period(c)))
}

func (h *InventoryCtrl) AreaPeriodPlots(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.PlotsByAreaForPeriod(period(c)))
}

func (h *InventoryCtrl) AreaGroups(c echo.Context) error {
	by := c.QueryParam("by")
	if by != "" && by != "area" && by != "type" {
		return badRequest(c, fmt.Errorf("by must be area or type"))
	}
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	if by == "type" {
		return c.JSON(http.StatusOK, ds.GroupedByType())
	}
	return c.JSON(http.StatusOK, ds.GroupedByArea())
}

func (h *InventoryCtrl) Discrepancies(c echo.Context) error {
	ds, err := h.snapshot(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ds.Discrepancies())
}

func (h *InventoryCtrl) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.s.Export(c.Request().Context(), &buf); err != nil {
		return h.fail(c, err)
	}
	name := fmt.Sprintf("plot-inventory-%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *InventoryCtrl) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, fmt.Errorf("file is required"))
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "workbook too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, err)
	}
	defer f.Close()

	res, err := h.s.Import(c.Request().Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}
