package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"voltedge_site_go/db"
	"voltedge_site_go/models"
	"voltedge_site_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = testDB.AutoMigrate(&models.User{}, &models.Session{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// Set the global DB variable used by middleware
	db.DB = testDB
	return testDB
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "success")
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRequireAuth(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	user, err := services.CreateAdminUser(testDB, "Test User", "test@example.com", "Sup3rSecret!")
	require.NoError(t, err)
	session, err := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	t.Run("ValidSession", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+session.Token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, GetCurrentUser(c).ID)
		assert.Equal(t, session.ID, GetCurrentSession(c).ID)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authentication required", errorBody(t, rec))
		assert.Contains(t, rec.Header().Get(echo.HeaderWWWAuthenticate), "Bearer")
	})

	t.Run("WrongScheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Basic "+session.Token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer nope")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, GetCurrentUser(c))
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		expired := models.Session{ID: "expired", UserID: user.ID, Token: "expired-token", ExpiresAt: time.Now().Add(-time.Hour)}
		testDB.Create(&expired)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer expired-token")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InactiveUser", func(t *testing.T) {
		other, _ := services.CreateAdminUser(testDB, "Gone", "gone@example.com", "Sup3rSecret!")
		s, _ := services.CreateSession(testDB, other.ID, "", "")
		testDB.Model(other).Update("is_active", false)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.Token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Account has been deactivated", errorBody(t, rec))

		_, err := services.ValidateSession(testDB, s.Token)
		assert.ErrorIs(t, err, services.ErrSessionNotFound)
	})
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	t.Run("Allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set(ContextKeyUser, &models.User{Role: models.RoleAdmin})

		assert.NoError(t, RequireRole(models.RoleAdmin)(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set(ContextKeyUser, &models.User{Role: "viewer"})

		assert.NoError(t, RequireRole(models.RoleAdmin)(okHandler)(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("NoUser", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		assert.NoError(t, RequireRole(models.RoleAdmin)(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestBearerToken(t *testing.T) {
	e := echo.New()
	tests := map[string]string{
		"":               "",
		"Bearer abc":     "abc",
		"bearer  abc ":   "abc",
		"Token abc":      "",
		"Bearer":         "",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		assert.Equal(t, want, BearerToken(c), "header %q", header)
	}
}
