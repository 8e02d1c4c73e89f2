package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enquiry statuses
const (
	EnquiryStatusNew      = "New"
	EnquiryStatusRead     = "Read"
	EnquiryStatusReplied  = "Replied"
	EnquiryStatusArchived = "Archived"
)

// EnquiryStatuses lists every valid enquiry status.
var EnquiryStatuses = []string{EnquiryStatusNew, EnquiryStatusRead, EnquiryStatusReplied, EnquiryStatusArchived}

// Enquiry is a message sent through the public contact form.
type Enquiry struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"not null" json:"name"`
	Email   string `gorm:"not null;index" json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`
	Status  string `gorm:"not null;default:New;index" json:"status"`

	IPAddress string `gorm:"type:varchar(45)" json:"-"`
	UserAgent string `gorm:"type:text" json:"-"`
}

func (e *Enquiry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = EnquiryStatusNew
	}
	return nil
}

func (Enquiry) TableName() string {
	return "enquiries"
}
