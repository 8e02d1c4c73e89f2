package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Uncategorized is the category records fall back to when theirs is deleted.
const Uncategorized = "Uncategorized"

const (
	StatusActive     = "Active"
	StatusInactive   = "Inactive"
	StatusOutOfStock = "Out of Stock"
	StatusProspect   = "Prospect"
)

type Product struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string  `gorm:"not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"not null;default:Uncategorized;index" json:"category"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	Status      string  `gorm:"not null;default:Active;index" json:"status"`
	ImageURL    string  `json:"image_url"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}

type Service struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Category    string  `gorm:"not null;default:Uncategorized;index" json:"category"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	Projects    int     `gorm:"not null;default:0" json:"projects"`
	Status      string  `gorm:"not null;default:Active;index" json:"status"`
	ImageURL    string  `json:"image_url"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (Service) TableName() string {
	return "services"
}

type Client struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string  `gorm:"not null" json:"name"`
	Address   string  `json:"address"`
	Industry  string  `gorm:"index" json:"industry"`
	Status    string  `gorm:"not null;default:Active;index" json:"status"`
	SinceYear *int    `json:"since_year"`
	Rating    float64 `gorm:"not null;default:0" json:"rating"`
	LogoURL   string  `json:"logo_url"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (Client) TableName() string {
	return "clients"
}

type GalleryImage struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `gorm:"not null" json:"title"`
	URL         string `gorm:"not null" json:"url"`
	Category    string `gorm:"not null;default:Uncategorized;index" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	AltText     string `json:"alt_text"`
}

func (g *GalleryImage) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

func (GalleryImage) TableName() string {
	return "gallery_images"
}
