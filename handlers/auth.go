package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"voltedge_site_go/db"
	"voltedge_site_go/middleware"
	"voltedge_site_go/models"
	"voltedge_site_go/services"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type authData struct {
	Token     string       `json:"token,omitempty"`
	User      *models.User `json:"user"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

// LoginHandler exchanges credentials for a bearer session.
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return jsonError(c, http.StatusBadRequest, "Email and password are required")
	}

	user, err := services.Authenticate(db.DB, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			services.LogSecurityEvent("LOGIN_FAILED", "", "email="+req.Email+" ip="+c.RealIP())
			return jsonError(c, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, services.ErrAccountLocked):
			return jsonError(c, http.StatusTooManyRequests, "Account is locked. Try again later.")
		case errors.Is(err, services.ErrAccountDisabled):
			return jsonError(c, http.StatusForbidden, "Account has been deactivated")
		}
		return serviceError(c, err)
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return serviceError(c, err)
	}
	services.LogSecurityEvent("LOGIN_SUCCESS", user.ID, "ip="+c.RealIP())

	return c.JSON(http.StatusOK, envelope{Success: true, Data: authData{
		Token:     session.Token,
		User:      user,
		ExpiresAt: &session.ExpiresAt,
	}})
}

// VerifyHandler returns the user behind the bearer token.
func VerifyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return jsonError(c, http.StatusUnauthorized, "Authentication required")
	}
	data := authData{User: user}
	if session := middleware.GetCurrentSession(c); session != nil {
		data.ExpiresAt = &session.ExpiresAt
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// LogoutHandler deletes the current session.
func LogoutHandler(c echo.Context) error {
	if err := services.DeleteSession(db.DB, middleware.BearerToken(c)); err != nil {
		return serviceError(c, err)
	}
	if user := middleware.GetCurrentUser(c); user != nil {
		services.LogSecurityEvent("LOGOUT", user.ID, "")
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Logged out"})
}
