package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"reien/pkg/metrics"
	"reien/pkg/middleware"
)

func New(
	e *echo.Echo,
	log *slog.Logger,
	invCtrl interface{ Register(*echo.Echo) },
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLog(log))

	e.GET("/health", healthCtrl.Health)
	e.GET("/metrics", metrics.Handler())

	invCtrl.Register(e)
	return e
}
