package handlers

import (
	"errors"
	"net/http"
	"voltedge_site_go/services"

	"github.com/labstack/echo/v4"
)

// uploadFolders are the storage prefixes an upload may target.
var uploadFolders = map[string]bool{
	"products": true,
	"services": true,
	"clients":  true,
	"gallery":  true,
}

// UploadImageHandler stores a multipart image and returns its public URL.
func UploadImageHandler(c echo.Context) error {
	folder := c.FormValue("folder")
	if folder == "" {
		folder = "gallery"
	}
	if !uploadFolders[folder] {
		return jsonError(c, http.StatusBadRequest, "Unknown upload folder")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "No file uploaded")
	}
	if services.Storage == nil {
		return jsonError(c, http.StatusServiceUnavailable, "Storage is not configured")
	}

	res, err := services.SaveImageUpload(c.Request().Context(), services.Storage, file, folder)
	if err != nil {
		if errors.Is(err, services.ErrInvalidImage) {
			return jsonError(c, http.StatusBadRequest, err.Error())
		}
		c.Logger().Errorf("image upload failed: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Failed to store image")
	}

	return c.JSON(http.StatusCreated, envelope{Success: true, Data: map[string]interface{}{
		"url":  res.URL,
		"key":  res.Key,
		"size": res.FileSize,
	}})
}
