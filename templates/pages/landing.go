package pages

import (
	"fmt"
	"strings"
	"voltedge_site_go/models"
)

// LandingData is everything the public single-page site shows.
type LandingData struct {
	Title            string
	Products         []models.Product
	Services         []models.Service
	Clients          []models.Client
	Gallery          []models.GalleryImage
	TurnstileSiteKey string
	Year             int
}

// PriceLabel shows a zero price as "On request".
func PriceLabel(p float64) string {
	if p == 0 {
		return "On request"
	}
	return fmt.Sprintf("$%.2f", p)
}

// Stars renders a 0-5 rating rounded to whole stars.
func Stars(rating float64) string {
	n := int(rating + 0.5)
	n = max(0, min(n, 5))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
