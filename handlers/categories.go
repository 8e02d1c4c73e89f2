package handlers

import (
	"net/http"
	"voltedge_site_go/db"
	"voltedge_site_go/services"

	"github.com/labstack/echo/v4"
)

type categoryRequest struct {
	Name string `json:"name" form:"name"`
	Type string `json:"type" form:"type"`
}

// ListCategoriesHandler returns the categories of ?type= with usage counts.
func ListCategoriesHandler(c echo.Context) error {
	cats, err := services.ListCategories(db.DB, c.QueryParam("type"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: cats, Total: int64(len(cats))})
}

func CategoryUsageHandler(c echo.Context) error {
	usage, err := services.CategoryUsage(db.DB, c.QueryParam("type"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: usage, Total: int64(len(usage))})
}

func CreateCategoryHandler(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Type == "" {
		req.Type = c.QueryParam("type")
	}

	cat, err := services.CreateCategory(db.DB, req.Type, req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: cat})
}

// RenameCategoryHandler renames a category. Records filed under it follow.
func RenameCategoryHandler(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}

	cat, err := services.RenameCategory(db.DB, c.Param("id"), req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: cat})
}

func DeleteCategoryHandler(c echo.Context) error {
	moved, err := services.DeleteCategory(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Category deleted",
		Data:    map[string]int64{"reassigned": moved},
	})
}
