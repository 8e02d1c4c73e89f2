package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category types. Each type has its own namespace of names.
const (
	CategoryTypeProduct = "product"
	CategoryTypeGallery = "gallery"
)

// Category groups products or gallery images. Records reference it by name.
type Category struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"not null;uniqueIndex:idx_category_type_slug" json:"slug"`
	Type string `gorm:"not null;uniqueIndex:idx_category_type_slug" json:"type"`

	Count int64 `gorm:"-" json:"count"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (Category) TableName() string {
	return "categories"
}

// ValidCategoryType reports whether t is a known category type.
func ValidCategoryType(t string) bool {
	return t == CategoryTypeProduct || t == CategoryTypeGallery
}
