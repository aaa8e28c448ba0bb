package controller

import "github.com/labstack/echo/v4"

type InventoryController interface {
	Summary(c echo.Context) error
	Periods(c echo.Context) error
	Period(c echo.Context) error
	PeriodPlots(c echo.Context) error
	Plots(c echo.Context) error
	SortedPlots(c echo.Context) error
	Sections(c echo.Context) error
	Sizes(c echo.Context) error
	Areas(c echo.Context) error
	AreaSummary(c echo.Context) error
	AreaPeriods(c echo.Context) error
	AreaPeriod(c echo.Context) error
	AreaPeriodPlots(c echo.Context) error
	AreaGroups(c echo.Context) error
	Discrepancies(c echo.Context) error
	Export(c echo.Context) error
	Import(c echo.Context) error
}
