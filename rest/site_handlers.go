package rest

import (
	"errors"
	"net/http"

	"feedsearch/di"
	"feedsearch/domain"
	"feedsearch/schema"

	"github.com/labstack/echo/v4"
)

func handleListSites(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		sites := container.SiteUsecase.ListSites(c.Request().Context())

		summaries := make([]schema.SiteSummary, 0, len(sites))
		for _, site := range sites {
			summaries = append(summaries, schema.SiteSummary{
				Host:     site.Host,
				LastSeen: site.LastSeen,
			})
		}
		return c.JSON(http.StatusOK, summaries)
	}
}

func handleGetSite(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		host := c.Param("host")

		site, err := container.SiteUsecase.GetSite(c.Request().Context(), host)
		if err != nil {
			if errors.Is(err, domain.ErrSiteNotFound) {
				// historical quirk of the public API, kept for compatibility
				return c.JSON(http.StatusPaymentRequired, map[string]string{
					"error":   http.StatusText(http.StatusPaymentRequired),
					"message": "Site not found: " + host,
				})
			}
			return handleError(c, err, "get_site")
		}

		projection := schema.Projection{}
		if !parseBool(c.QueryParam("favicon")) {
			projection.Exclude = []string{"favicon_data_uri"}
		}
		return c.JSON(http.StatusOK, schema.ProjectSite(site, projection))
	}
}
