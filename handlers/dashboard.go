package handlers

import (
	"net/http"
	"voltedge_site_go/db"
	"voltedge_site_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardStatsHandler returns the back-office overview totals.
func DashboardStatsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: services.GetDashboardStats(db.DB)})
}
