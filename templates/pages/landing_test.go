package pages

import (
	"context"
	"strings"
	"testing"
	"voltedge_site_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceLabelAndStars(t *testing.T) {
	assert.Equal(t, "On request", PriceLabel(0))
	assert.Equal(t, "$12.50", PriceLabel(12.5))

	assert.Equal(t, "☆☆☆☆☆", Stars(0))
	assert.Equal(t, "★★★★☆", Stars(3.6))
	assert.Equal(t, "★★★★★", Stars(9))
}

func TestLandingRender(t *testing.T) {
	var sb strings.Builder
	err := Landing(LandingData{
		Title:    "VoltEdge",
		Products: []models.Product{{Name: "Breaker <MV>", Price: 0}},
		Services: []models.Service{{Title: "Audits", Description: "<p>Yearly <b>audits</b></p>", Projects: 12}},
		Clients:  []models.Client{{Name: "Acme & Sons", Industry: "Mining", Rating: 5}},
		Year:     2024,
	}).Render(context.Background(), &sb)
	require.NoError(t, err)

	html := sb.String()
	assert.Contains(t, html, "Breaker &lt;MV&gt;")
	assert.Contains(t, html, "On request")
	assert.Contains(t, html, "<b>audits</b>")
	assert.Contains(t, html, "12 projects delivered")
	assert.Contains(t, html, "Acme &amp; Sons · Mining")
	assert.Contains(t, html, "&copy; 2024")
	assert.NotContains(t, html, "cf-turnstile", "no widget without a site key")
	assert.NotContains(t, html, "Our catalogue is being updated.")
}
