package main

import (
	"log"
	"strings"
	"voltedge_site_go/config"
	"voltedge_site_go/db"
	"voltedge_site_go/models"
	"voltedge_site_go/services"

	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Println("Starting category slug migration...")

	created := registerMissing(db.DB, models.CategoryTypeProduct, &models.Product{})
	created += registerMissing(db.DB, models.CategoryTypeGallery, &models.GalleryImage{})
	if created > 0 {
		log.Printf("Registered %d categories that records referenced but the category list lacked\n", created)
	}

	// Fetch all categories without slugs
	var categories []models.Category
	if err := db.DB.Where("slug = ? OR slug IS NULL", "").Find(&categories).Error; err != nil {
		log.Fatalf("Failed to fetch categories: %v", err)
	}

	if len(categories) == 0 {
		log.Println("No categories need slug migration. All categories already have slugs.")
		return
	}

	log.Printf("Found %d categories without slugs. Generating slugs...\n", len(categories))

	for i, category := range categories {
		slug := services.UniqueCategorySlug(db.DB, category.Type, category.Name, category.ID)

		if err := db.DB.Model(&category).Update("slug", slug).Error; err != nil {
			log.Printf("Failed to update slug for category %s (ID: %s): %v\n", category.Name, category.ID, err)
			continue
		}

		log.Printf("[%d/%d] Generated slug '%s' for %s category '%s'\n", i+1, len(categories), slug, category.Type, category.Name)
	}

	log.Println("Slug migration completed successfully!")
}

// registerMissing creates a category row for every distinct category name
// used by model that has no row of kind yet.
func registerMissing(tx *gorm.DB, kind string, model interface{}) int {
	var names []string
	if err := tx.Model(model).Distinct("category").Where("category <> ''").Pluck("category", &names).Error; err != nil {
		log.Printf("[WARNING] Failed to read %s categories: %v", kind, err)
		return 0
	}

	created := 0
	for _, name := range names {
		if strings.EqualFold(name, models.Uncategorized) {
			continue
		}
		var count int64
		tx.Model(&models.Category{}).Where("type = ? AND LOWER(name) = ?", kind, strings.ToLower(name)).Count(&count)
		if count > 0 {
			continue
		}
		category := models.Category{Name: name, Type: kind, Slug: services.UniqueCategorySlug(tx, kind, name, "")}
		if err := tx.Create(&category).Error; err != nil {
			log.Printf("Failed to register %s category %q: %v\n", kind, name, err)
			continue
		}
		created++
	}
	return created
}
