package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"voltedge_site_go/config"
	"voltedge_site_go/db"
	"voltedge_site_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// maxPageSize caps the limit query parameter.
const maxPageSize = 100

// envelope is the {success, data} shape of mutation responses.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type listResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page,omitempty"`
	Limit int         `json:"limit,omitempty"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Error: msg})
}

// serviceError maps service errors onto HTTP responses.
func serviceError(c echo.Context, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Please correct the highlighted fields", Fields: verr.Fields})
	case errors.Is(err, services.ErrValidation):
		return jsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return jsonError(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, services.ErrConflict):
		return jsonError(c, http.StatusConflict, err.Error())
	}
	c.Logger().Errorf("request failed: %v", err)
	return jsonError(c, http.StatusInternalServerError, "Something went wrong, please try again")
}

// HTTPErrorHandler renders echo errors as {"error": message}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	} else {
		c.Logger().Error(err)
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(status)
		return
	}
	c.JSON(status, errorResponse{Error: msg})
}

// listFilters reads search, category, status, page and limit.
func listFilters(c echo.Context) services.ListFilters {
	f := services.ListFilters{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 {
		f.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		if limit > maxPageSize {
			limit = maxPageSize
		}
		f.Limit = limit
	}
	return f
}

func listRecords[T any](c echo.Context, list func(*gorm.DB, services.ListFilters) ([]T, int64, error)) error {
	f := listFilters(c)
	items, total, err := list(db.DB, f)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: items, Total: total, Page: f.Page, Limit: f.Limit})
}

func getRecord[T any](c echo.Context, get func(*gorm.DB, string) (*T, error)) error {
	rec, err := get(db.DB, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: rec})
}

func createRecord[In, T any](c echo.Context, create func(context.Context, *gorm.DB, In) (*T, error)) error {
	var in In
	if err := c.Bind(&in); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	rec, err := create(c.Request().Context(), db.DB, in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: rec})
}

func updateRecord[In, T any](c echo.Context, update func(context.Context, *gorm.DB, string, In) (*T, error)) error {
	var in In
	if err := c.Bind(&in); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	rec, err := update(c.Request().Context(), db.DB, c.Param("id"), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: rec})
}

func deleteRecord(c echo.Context, remove func(context.Context, *gorm.DB, string) error) error {
	if err := remove(c.Request().Context(), db.DB, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Deleted"})
}
