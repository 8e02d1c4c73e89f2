package services

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"voltedge_site_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// EnquiryInput is the public contact form.
type EnquiryInput struct {
	Name           string `json:"name" form:"name"`
	Email          string `json:"email" form:"email"`
	Phone          string `json:"phone" form:"phone"`
	Subject        string `json:"subject" form:"subject"`
	Message        string `json:"message" form:"message"`
	TurnstileToken string `json:"turnstile_token" form:"cf-turnstile-response"`
}

func (in *EnquiryInput) normalize() {
	in.Name = SanitizeText(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = SanitizeText(in.Phone)
	in.Subject = SanitizeText(in.Subject)
	in.Message = SanitizeText(in.Message)
}

func (in *EnquiryInput) validate() error {
	errs := fieldErrors{}
	checkText(errs, "name", "Name", &in.Name, true, 2, 120)
	checkText(errs, "email", "Email", &in.Email, true, 0, 254)
	if in.Email != "" {
		if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
			errs.add("email", "Email must be a valid email address")
		}
	}
	checkText(errs, "phone", "Phone", &in.Phone, false, 0, 40)
	checkText(errs, "subject", "Subject", &in.Subject, false, 0, 160)
	checkText(errs, "message", "Message", &in.Message, true, 10, 5000)
	return errs.err()
}

// CreateEnquiry stores a contact form submission.
func CreateEnquiry(db *gorm.DB, in EnquiryInput, ipAddress, userAgent string) (*models.Enquiry, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	enquiry := &models.Enquiry{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    models.EnquiryStatusNew,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := db.Create(enquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to create enquiry: %w", err)
	}
	return enquiry, nil
}

func ListEnquiries(db *gorm.DB, f ListFilters) ([]models.Enquiry, int64, error) {
	return listRecords[models.Enquiry](db, enquiryList, f)
}

func GetEnquiry(db *gorm.DB, id string) (*models.Enquiry, error) {
	return getRecord[models.Enquiry](db, id)
}

// UpdateEnquiryStatus moves an enquiry through New/Read/Replied/Archived.
func UpdateEnquiryStatus(db *gorm.DB, id, status string) (*models.Enquiry, error) {
	errs := fieldErrors{}
	checkText(errs, "status", "Status", &status, true, 0, 0)
	checkEnum(errs, "status", "Status", &status, models.EnquiryStatuses)
	if err := errs.err(); err != nil {
		return nil, err
	}

	enquiry, err := GetEnquiry(db, id)
	if err != nil {
		return nil, err
	}
	enquiry.Status = status
	if err := db.Save(enquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to update enquiry: %w", err)
	}
	return enquiry, nil
}

func DeleteEnquiry(db *gorm.DB, id string) error {
	res := db.Delete(&models.Enquiry{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete enquiry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExportEnquiriesXLSX writes every enquiry matching f into a spreadsheet.
func ExportEnquiriesXLSX(db *gorm.DB, f ListFilters) (*bytes.Buffer, error) {
	f.Limit = 0
	enquiries, _, err := ListEnquiries(db, f)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Enquiries"
	file.SetSheetName("Sheet1", sheet)

	headers := []string{"Received", "Name", "Email", "Phone", "Subject", "Message", "Status"}
	headerStyle, _ := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F2937"}, Pattern: 1},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, h)
	}
	file.SetCellStyle(sheet, "A1", "G1", headerStyle)

	for row, e := range enquiries {
		values := []interface{}{
			e.CreatedAt.Format(time.RFC3339),
			e.Name,
			e.Email,
			e.Phone,
			e.Subject,
			e.Message,
			e.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, v)
		}
	}

	file.SetColWidth(sheet, "A", "A", 22)
	file.SetColWidth(sheet, "B", "E", 24)
	file.SetColWidth(sheet, "F", "F", 60)
	file.SetColWidth(sheet, "G", "G", 12)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf, nil
}
