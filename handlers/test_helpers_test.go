package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"voltedge_site_go/config"
	"voltedge_site_go/db"
	"voltedge_site_go/models"
	"voltedge_site_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	services.Storage = services.NewLocalStorage(t.TempDir())

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Product{},
		&models.Service{},
		&models.Client{},
		&models.GalleryImage{},
		&models.Category{},
		&models.Enquiry{},
	)
	assert.NoError(t, err)
	require.NoError(t, services.EnsureUncategorized(testDB))

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

// jsonRequest builds a context carrying a JSON body.
func jsonRequest(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	_, c, rec := setupEcho(method, path, strings.NewReader(body))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func stringToPtr(s string) *string {
	return &s
}

func floatToPtr(f float64) *float64 {
	return &f
}
