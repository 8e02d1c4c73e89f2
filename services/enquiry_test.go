package services

import (
	"testing"
	"voltedge_site_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCreateEnquiry(t *testing.T) {
	db := setupCatalogTestDB(t)

	e, err := CreateEnquiry(db, EnquiryInput{
		Name:    "  Dana <i>Ortiz</i> ",
		Email:   " Dana@Plant.Example ",
		Subject: "Retrofit",
		Message: "Please quote two MV switchgear panels.",
	}, "10.0.0.1", "curl/8")
	require.NoError(t, err)

	assert.Equal(t, "Dana Ortiz", e.Name)
	assert.Equal(t, "dana@plant.example", e.Email)
	assert.Equal(t, models.EnquiryStatusNew, e.Status)
	assert.Equal(t, "10.0.0.1", e.IPAddress)
}

func TestCreateEnquiryValidation(t *testing.T) {
	db := setupCatalogTestDB(t)

	_, err := CreateEnquiry(db, EnquiryInput{Name: "D", Email: "not-an-email", Message: "hi"}, "", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Name must be at least 2 characters", verr.Fields["name"])
	assert.Equal(t, "Email must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "Message must be at least 10 characters", verr.Fields["message"])

	_, err = CreateEnquiry(db, EnquiryInput{}, "", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email is required", verr.Fields["email"])
}

func TestEnquiryStatusAndDelete(t *testing.T) {
	db := setupCatalogTestDB(t)
	e, err := CreateEnquiry(db, EnquiryInput{Name: "Lee", Email: "lee@example.com", Message: "Can you service our plant?"}, "", "")
	require.NoError(t, err)

	updated, err := UpdateEnquiryStatus(db, e.ID, models.EnquiryStatusReplied)
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryStatusReplied, updated.Status)

	_, err = UpdateEnquiryStatus(db, e.ID, "Spam")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = UpdateEnquiryStatus(db, "missing", models.EnquiryStatusRead)
	assert.ErrorIs(t, err, ErrNotFound)

	_, total, _ := ListEnquiries(db, ListFilters{Status: models.EnquiryStatusReplied})
	assert.EqualValues(t, 1, total)

	require.NoError(t, DeleteEnquiry(db, e.ID))
	assert.ErrorIs(t, DeleteEnquiry(db, e.ID), ErrNotFound)
}

func TestExportEnquiriesXLSX(t *testing.T) {
	db := setupCatalogTestDB(t)
	CreateEnquiry(db, EnquiryInput{Name: "Dana", Email: "dana@example.com", Message: "First enquiry message"}, "", "")
	CreateEnquiry(db, EnquiryInput{Name: "Lee", Email: "lee@example.com", Phone: "555", Message: "Second enquiry message"}, "", "")

	buf, err := ExportEnquiriesXLSX(db, ListFilters{Limit: 1})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Enquiries")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus every enquiry, paging ignored")
	assert.Equal(t, []string{"Received", "Name", "Email", "Phone", "Subject", "Message", "Status"}, rows[0])

	var names []string
	for _, r := range rows[1:] {
		names = append(names, r[1])
	}
	assert.ElementsMatch(t, []string{"Dana", "Lee"}, names)
}
