package handlers

import (
	"context"
	"net/http"
	"testing"
	"voltedge_site_go/db"
	"voltedge_site_go/models"
	"voltedge_site_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLandingHandler(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	services.CreateProduct(ctx, db.DB, services.ProductInput{Name: stringToPtr("Vacuum breaker"), Price: floatToPtr(990)})
	services.CreateProduct(ctx, db.DB, services.ProductInput{Name: stringToPtr("Retired relay"), Price: floatToPtr(10), Status: stringToPtr(models.StatusInactive)})
	services.CreateService(ctx, db.DB, services.ServiceInput{
		Title: stringToPtr("Thermal imaging"), Description: stringToPtr("<p>Annual <b>thermography</b> surveys</p>"), Price: floatToPtr(0),
	})
	services.CreateClient(ctx, db.DB, services.ClientInput{Name: stringToPtr("Acme & Sons"), Rating: floatToPtr(4)})

	_, c, rec := setupEcho(http.MethodGet, "/", nil)
	require.NoError(t, LandingHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	assert.Contains(t, html, "Vacuum breaker")
	assert.Contains(t, html, "$990.00")
	assert.NotContains(t, html, "Retired relay", "inactive products stay off the public site")
	assert.Contains(t, html, "<b>thermography</b>")
	assert.Contains(t, html, "Acme &amp; Sons")
	assert.Contains(t, html, "★★★★☆")
	assert.Contains(t, html, `id="enquiry-form"`)
}

func TestHealthHandler(t *testing.T) {
	setupTestDB(t)

	_, c, rec := setupEcho(http.MethodGet, "/healthz", nil)
	require.NoError(t, HealthHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestDashboardStatsHandler(t *testing.T) {
	setupTestDB(t)
	services.CreateEnquiry(db.DB, services.EnquiryInput{Name: "Dana", Email: "dana@example.com", Message: "Quote for cabling please"}, "", "")

	_, c, rec := setupEcho(http.MethodGet, "/api/dashboard/stats", nil)
	require.NoError(t, DashboardStatsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["enquiries"])
	assert.EqualValues(t, 1, data["unread_enquiries"])
	assert.EqualValues(t, 0, data["products"])
}
