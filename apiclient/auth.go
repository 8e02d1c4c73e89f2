package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"voltedge_site_go/admin"
)

type authPayload struct {
	Token     string            `json:"token"`
	User      admin.SessionUser `json:"user"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// authResponse accepts both {"data":{...}} and a bare object.
type authResponse struct {
	authPayload
	Data *authPayload `json:"data"`
}

func (r authResponse) payload() authPayload {
	if r.Data != nil {
		return *r.Data
	}
	return r.authPayload
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (admin.AuthSession, error) {
	raw, err := c.doWithToken(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return admin.AuthSession{}, err
	}

	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return admin.AuthSession{}, fmt.Errorf("failed to decode login response: %w", err)
	}
	p := resp.payload()
	if p.Token == "" {
		return admin.AuthSession{}, errors.New("login response carried no token")
	}
	return admin.AuthSession{Token: p.Token, User: p.User, ExpiresAt: p.ExpiresAt}, nil
}

// Verify checks token with the server and returns its user.
func (c *Client) Verify(ctx context.Context, token string) (admin.SessionUser, error) {
	raw, err := c.doWithToken(ctx, http.MethodGet, "/api/auth/verify", nil, nil, token)
	if err != nil {
		return admin.SessionUser{}, err
	}
	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return admin.SessionUser{}, fmt.Errorf("failed to decode verify response: %w", err)
	}
	return resp.payload().User, nil
}

// Logout invalidates token on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.doWithToken(ctx, http.MethodPost, "/api/auth/logout", nil, nil, token)
	return err
}

// ExportEnquiries streams the enquiries spreadsheet into w.
func (c *Client) ExportEnquiries(ctx context.Context, w io.Writer) (int64, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/enquiries/export", nil, nil, c.token())
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		return 0, decodeError(resp.StatusCode, data)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to download export: %w", err)
	}
	return n, nil
}
