package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"voltedge_site_go/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CategoryUsageRow is the number of records filed under one category name.
type CategoryUsageRow struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// categoryTables lists the tables whose "category" column follows the
// categories of a type.
var categoryTables = map[string][]string{
	models.CategoryTypeProduct: {"products"},
	models.CategoryTypeGallery: {"gallery_images"},
}

func checkCategoryType(kind string) error {
	if !models.ValidCategoryType(kind) {
		return &ValidationError{Fields: map[string]string{"type": "Type must be one of: product, gallery"}}
	}
	return nil
}

// EnsureUncategorized creates the Uncategorized category of every type.
func EnsureUncategorized(db *gorm.DB) error {
	for kind := range categoryTables {
		var count int64
		db.Model(&models.Category{}).Where("type = ? AND name = ?", kind, models.Uncategorized).Count(&count)
		if count > 0 {
			continue
		}
		cat := &models.Category{Name: models.Uncategorized, Slug: slug.Make(models.Uncategorized), Type: kind}
		if err := db.Create(cat).Error; err != nil {
			return fmt.Errorf("failed to create %s category: %w", kind, err)
		}
	}
	return nil
}

// ListCategories returns the categories of kind sorted by name with their
// usage counts.
func ListCategories(db *gorm.DB, kind string) ([]models.Category, error) {
	if err := checkCategoryType(kind); err != nil {
		return nil, err
	}
	cats := []models.Category{}
	if err := db.Where("type = ?", kind).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	usage, err := CategoryUsage(db, kind)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(usage))
	for _, u := range usage {
		counts[u.Name] = u.Count
	}
	for i := range cats {
		cats[i].Count = counts[cats[i].Name]
	}
	return cats, nil
}

// CategoryUsage counts records per category name across the tables of kind.
func CategoryUsage(db *gorm.DB, kind string) ([]CategoryUsageRow, error) {
	if err := checkCategoryType(kind); err != nil {
		return nil, err
	}
	totals := map[string]int64{}
	var order []string
	for _, table := range categoryTables[kind] {
		var rows []CategoryUsageRow
		err := db.Table(table).
			Select("category AS name, COUNT(*) AS count").
			Group("category").
			Order("category").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count %s usage: %w", table, err)
		}
		for _, r := range rows {
			if _, seen := totals[r.Name]; !seen {
				order = append(order, r.Name)
			}
			totals[r.Name] += r.Count
		}
	}

	out := make([]CategoryUsageRow, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryUsageRow{Name: name, Count: totals[name]})
	}
	return out, nil
}

// CreateCategory adds a category. Names are unique per type ignoring case.
func CreateCategory(db *gorm.DB, kind, name string) (*models.Category, error) {
	if err := checkCategoryType(kind); err != nil {
		return nil, err
	}
	name = SanitizeText(name)
	if err := checkCategoryName(db, kind, name, ""); err != nil {
		return nil, err
	}

	cat := &models.Category{Name: name, Type: kind, Slug: UniqueCategorySlug(db, kind, name, "")}
	if err := db.Create(cat).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return cat, nil
}

// RenameCategory renames a category and moves every record filed under the
// old name to the new one in the same transaction.
func RenameCategory(db *gorm.DB, id, name string) (*models.Category, error) {
	name = SanitizeText(name)

	var cat models.Category
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cat, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if cat.Name == models.Uncategorized {
			return &ValidationError{Fields: map[string]string{"name": "The Uncategorized category cannot be renamed"}}
		}
		if err := checkCategoryName(tx, cat.Type, name, cat.ID); err != nil {
			return err
		}

		oldName := cat.Name
		cat.Name = name
		cat.Slug = UniqueCategorySlug(tx, cat.Type, name, cat.ID)
		if err := tx.Save(&cat).Error; err != nil {
			return fmt.Errorf("failed to rename category: %w", err)
		}
		for _, table := range categoryTables[cat.Type] {
			if err := tx.Table(table).Where("category = ?", oldName).Update("category", name).Error; err != nil {
				return fmt.Errorf("failed to update %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory removes a category. Records using it are reassigned to
// Uncategorized, never deleted.
func DeleteCategory(db *gorm.DB, id string) (int64, error) {
	var moved int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if cat.Name == models.Uncategorized {
			return &ValidationError{Fields: map[string]string{"name": "The Uncategorized category cannot be deleted"}}
		}

		for _, table := range categoryTables[cat.Type] {
			res := tx.Table(table).Where("category = ?", cat.Name).Update("category", models.Uncategorized)
			if res.Error != nil {
				return fmt.Errorf("failed to reassign %s: %w", table, res.Error)
			}
			moved += res.RowsAffected
		}
		if err := tx.Delete(&cat).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	return moved, err
}

func checkCategoryName(db *gorm.DB, kind, name, exceptID string) error {
	if name == "" {
		return &ValidationError{Fields: map[string]string{"name": "Category name is required"}}
	}
	if len(name) > 80 {
		return &ValidationError{Fields: map[string]string{"name": "Category name must be at most 80 characters"}}
	}
	q := db.Model(&models.Category{}).Where("type = ? AND LOWER(name) = ?", kind, strings.ToLower(name))
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	q.Count(&count)
	if count > 0 || strings.EqualFold(name, models.Uncategorized) {
		return &ValidationError{Fields: map[string]string{"name": "Category already exists"}}
	}
	return nil
}

// UniqueCategorySlug builds a slug for name that no other category of kind
// uses, appending -1, -2, ... on collision.
func UniqueCategorySlug(db *gorm.DB, kind, name, exceptID string) string {
	base := slug.Make(name)
	if base == "" {
		base = "category"
	}
	candidate := base
	for i := 1; ; i++ {
		q := db.Model(&models.Category{}).Where("type = ? AND slug = ?", kind, candidate)
		if exceptID != "" {
			q = q.Where("id <> ?", exceptID)
		}
		var count int64
		q.Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}
