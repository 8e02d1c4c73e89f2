package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"voltedge_site_go/db"
	"voltedge_site_go/models"
	"voltedge_site_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductHandler(t *testing.T) {
	setupTestDB(t)
	services.CreateCategory(db.DB, models.CategoryTypeProduct, "Cables")

	c, rec := jsonRequest(http.MethodPost, "/api/products", `{"name":"Armoured cable","category":"Cables","price":12.5}`)
	require.NoError(t, CreateProductHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "Armoured cable", data["name"])
	assert.Equal(t, "Cables", data["category"])
	assert.Equal(t, 12.5, data["price"])
}

func TestCreateProductHandlerValidation(t *testing.T) {
	setupTestDB(t)

	c, rec := jsonRequest(http.MethodPost, "/api/products", `{"price":-3}`)
	require.NoError(t, CreateProductHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["error"])
	fields := body["fields"].(map[string]interface{})
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Price cannot be negative", fields["price"])
}

func TestCreateProductHandlerBadJSON(t *testing.T) {
	setupTestDB(t)

	c, rec := jsonRequest(http.MethodPost, "/api/products", `{"name":`)
	require.NoError(t, CreateProductHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, rec)["error"])
}

func TestListProductsHandler(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	services.CreateCategory(db.DB, models.CategoryTypeProduct, "Switchgear")
	for i := 0; i < 7; i++ {
		cat := models.Uncategorized
		if i%2 == 0 {
			cat = "Switchgear"
		}
		_, err := services.CreateProduct(ctx, db.DB, services.ProductInput{
			Name: stringToPtr(fmt.Sprintf("Panel %d", i)), Category: stringToPtr(cat), Price: floatToPtr(1),
		})
		require.NoError(t, err)
	}

	t.Run("all", func(t *testing.T) {
		c, rec := jsonRequest(http.MethodGet, "/api/products", "")
		require.NoError(t, ListProductsHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Len(t, body["data"], 7)
		assert.EqualValues(t, 7, body["total"])
	})

	t.Run("filtered and paged", func(t *testing.T) {
		c, rec := jsonRequest(http.MethodGet, "/api/products?category=Switchgear&page=2&limit=3", "")
		require.NoError(t, ListProductsHandler(c))
		body := decodeBody(t, rec)
		assert.Len(t, body["data"], 1)
		assert.EqualValues(t, 4, body["total"])
		assert.EqualValues(t, 2, body["page"])
	})

	t.Run("All disables the filter", func(t *testing.T) {
		c, rec := jsonRequest(http.MethodGet, "/api/products?category=All&status=All&search=panel", "")
		require.NoError(t, ListProductsHandler(c))
		assert.EqualValues(t, 7, decodeBody(t, rec)["total"])
	})
}

func TestUpdateAndDeleteServiceHandler(t *testing.T) {
	setupTestDB(t)
	s, err := services.CreateService(context.Background(), db.DB, services.ServiceInput{
		Title: stringToPtr("Panel wiring"), Description: stringToPtr("Complete panel wiring"), Price: floatToPtr(100),
	})
	require.NoError(t, err)

	c, rec := jsonRequest(http.MethodPut, "/api/services/"+s.ID, `{"status":"Inactive","projects":3}`)
	c.SetParamNames("id")
	c.SetParamValues(s.ID)
	require.NoError(t, UpdateServiceHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "Inactive", data["status"])
	assert.EqualValues(t, 3, data["projects"])
	assert.Equal(t, "Panel wiring", data["title"])

	c, rec = jsonRequest(http.MethodDelete, "/api/services/"+s.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(s.ID)
	require.NoError(t, DeleteServiceHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = jsonRequest(http.MethodDelete, "/api/services/"+s.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(s.ID)
	require.NoError(t, DeleteServiceHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetClientHandlerNotFound(t *testing.T) {
	setupTestDB(t)

	c, rec := jsonRequest(http.MethodGet, "/api/clients/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, GetClientHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Record not found", decodeBody(t, rec)["error"])
}

func TestCreateGalleryImageHandlerStoresDataURL(t *testing.T) {
	setupTestDB(t)

	png := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="
	c, rec := jsonRequest(http.MethodPost, "/api/gallery", `{"title":"Substation","url":"`+png+`"}`)
	require.NoError(t, CreateGalleryImageHandler(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	url := data["url"].(string)
	_, ok := services.Storage.KeyForURL(url)
	assert.True(t, ok, "stored URL %s", url)
	assert.Equal(t, models.Uncategorized, data["category"])
}
