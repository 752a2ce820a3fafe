package rest

import (
	"net/http"

	"feedsearch/di"
	custommiddleware "feedsearch/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterRoutes(e *echo.Echo, container *di.ApplicationComponents) {
	e.Use(custommiddleware.RequestIDMiddleware())
	e.Use(middleware.Recover())
	e.Use(custommiddleware.OTelStatusMiddleware())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/v1/health"
		},
	}))

	health := func(c echo.Context) error {
		if err := container.Store.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	}
	e.GET("/v1/health", health)

	v1 := e.Group("/api/v1")
	v1.GET("/search", handleSearch(container))
	v1.GET("/search/health", health)
	v1.GET("/sites", handleListSites(container))
	v1.GET("/sites/:host", handleGetSite(container))
}
