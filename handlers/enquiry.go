package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"
	"voltedge_site_go/db"
	"voltedge_site_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SubmitEnquiryHandler handles the public contact form.
func SubmitEnquiryHandler(c echo.Context) error {
	cfg := getConfig(c)

	var in services.EnquiryInput
	if err := c.Bind(&in); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}

	if cfg.TurnstileSecretKey != "" {
		ok, err := services.VerifyTurnstileToken(c.Request().Context(), in.TurnstileToken, cfg.TurnstileSecretKey, c.RealIP())
		if !ok {
			log.Printf("[SECURITY] Turnstile rejected enquiry from %s: %v", c.RealIP(), err)
			return jsonError(c, http.StatusBadRequest, "Verification failed, please try again")
		}
	}

	enquiry, err := services.CreateEnquiry(db.DB, in, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return serviceError(c, err)
	}

	if cfg.NotifyEmail != "" {
		email, err := services.BuildEnquiryNotificationEmail(cfg.NotifyEmail, enquiry, cfg.AppURL)
		if err != nil {
			log.Printf("[WARNING] Failed to build enquiry email: %v", err)
		} else {
			services.SendEmailAsync(cfg, email)
		}
	}

	return c.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: "Thank you! We will get back to you shortly.",
		Data:    map[string]string{"id": enquiry.ID},
	})
}

func ListEnquiriesHandler(c echo.Context) error {
	return listRecords(c, services.ListEnquiries)
}

func GetEnquiryHandler(c echo.Context) error {
	return getRecord(c, services.GetEnquiry)
}

// UpdateEnquiryHandler changes the status of an enquiry.
func UpdateEnquiryHandler(c echo.Context) error {
	var req struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}

	enquiry, err := services.UpdateEnquiryStatus(db.DB, c.Param("id"), req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: enquiry})
}

func DeleteEnquiryHandler(c echo.Context) error {
	if err := services.DeleteEnquiry(db.DB, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Deleted"})
}

// ExportEnquiriesHandler downloads the filtered enquiries as a spreadsheet.
func ExportEnquiriesHandler(c echo.Context) error {
	buf, err := services.ExportEnquiriesXLSX(db.DB, listFilters(c))
	if err != nil {
		return serviceError(c, err)
	}

	filename := fmt.Sprintf("enquiries_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
