package services

import (
	"voltedge_site_go/models"

	"gorm.io/gorm"
)

// DashboardStats are the totals shown on the back-office overview.
type DashboardStats struct {
	Products        int64 `json:"products"`
	Services        int64 `json:"services"`
	Clients         int64 `json:"clients"`
	Gallery         int64 `json:"gallery"`
	Enquiries       int64 `json:"enquiries"`
	UnreadEnquiries int64 `json:"unread_enquiries"`
}

func GetDashboardStats(db *gorm.DB) DashboardStats {
	return DashboardStats{
		Products:        countRecords[models.Product](db),
		Services:        countRecords[models.Service](db),
		Clients:         countRecords[models.Client](db),
		Gallery:         countRecords[models.GalleryImage](db),
		Enquiries:       countRecords[models.Enquiry](db),
		UnreadEnquiries: countRecords[models.Enquiry](db, "status = ?", models.EnquiryStatusNew),
	}
}
