package handlers

import (
	"net/http"
	"time"
	"voltedge_site_go/db"
	"voltedge_site_go/models"
	"voltedge_site_go/services"
	"voltedge_site_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// landingLimit caps how many records of each kind the landing page shows.
const landingLimit = 12

// LandingHandler renders the public single-page site.
func LandingHandler(c echo.Context) error {
	cfg := getConfig(c)
	active := services.ListFilters{Status: models.StatusActive, Limit: landingLimit}

	data := pages.LandingData{
		Title:            "VoltEdge | Industrial Electrical Contractors",
		TurnstileSiteKey: cfg.TurnstileSiteKey,
		Year:             time.Now().Year(),
	}

	var err error
	if data.Products, _, err = services.ListProducts(db.DB, active); err != nil {
		c.Logger().Warnf("landing: products: %v", err)
	}
	if data.Services, _, err = services.ListServices(db.DB, active); err != nil {
		c.Logger().Warnf("landing: services: %v", err)
	}
	if data.Clients, _, err = services.ListClients(db.DB, active); err != nil {
		c.Logger().Warnf("landing: clients: %v", err)
	}
	if data.Gallery, _, err = services.ListGalleryImages(db.DB, services.ListFilters{Limit: landingLimit}); err != nil {
		c.Logger().Warnf("landing: gallery: %v", err)
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return pages.Landing(data).Render(c.Request().Context(), c.Response().Writer)
}

// HealthHandler reports whether the database answers.
func HealthHandler(c echo.Context) error {
	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
