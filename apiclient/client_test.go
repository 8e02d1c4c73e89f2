package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltedge_site_go/admin"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		calls = append(calls, rec)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestResourceClientRoutes(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	})
	res := New(srv.URL, WithToken("tok")).Resource("products")
	ctx := context.Background()

	_, err := res.List(ctx, admin.ListFilter{Search: "relay", Category: admin.All, Status: "Active"})
	require.NoError(t, err)
	_, err = res.Create(ctx, map[string]any{"name": "Relay"})
	require.NoError(t, err)
	_, err = res.Update(ctx, "p 1", map[string]any{"name": "Relay 2"})
	require.NoError(t, err)
	require.NoError(t, res.Delete(ctx, "p1"))

	require.Len(t, *calls, 4)
	got := *calls
	assert.Equal(t, "GET", got[0].method)
	assert.Equal(t, "/api/products", got[0].path)
	assert.Equal(t, "search=relay&status=Active", got[0].query)
	assert.Equal(t, "Bearer tok", got[0].auth)

	assert.Equal(t, "POST", got[1].method)
	assert.Equal(t, "Relay", got[1].body["name"])

	assert.Equal(t, "PUT", got[2].method)
	assert.Equal(t, "/api/products/p 1", got[2].path)

	assert.Equal(t, "DELETE", got[3].method)
	assert.Equal(t, "/api/products/p1", got[3].path)
}

func TestErrorResponses(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products":
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Validation failed", "fields": map[string]string{"price": "Price cannot be negative"}})
		case "/api/services/x":
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Service not found"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Resource("products").Create(ctx, map[string]any{"price": -1})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Price cannot be negative", apiErr.Fields["price"])
	assert.Equal(t, "Validation failed", admin.UserMessage(err, "fallback"))

	_, err = c.Resource("services").Update(ctx, "x", nil)
	assert.Equal(t, "Service not found", admin.UserMessage(err, "fallback"))

	err = c.Resource("clients").Delete(ctx, "x")
	require.Error(t, err)
	assert.Equal(t, "Failed to delete client", admin.UserMessage(err, "Failed to delete client"))
}

func TestCategoryClientRoutes(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	cats := New(srv.URL).Categories("gallery")
	ctx := context.Background()

	_, _ = cats.List(ctx)
	_, _ = cats.Create(ctx, "Substations")
	_, _ = cats.Rename(ctx, "c1", "Panels")
	_ = cats.Delete(ctx, "c1")
	_, _ = cats.Usage(ctx)

	got := *calls
	require.Len(t, got, 5)
	for _, call := range got {
		assert.Equal(t, "type=gallery", call.query)
	}
	assert.Equal(t, "/api/categories", got[1].path)
	assert.Equal(t, "Substations", got[1].body["name"])
	assert.Equal(t, "/api/categories/c1", got[2].path)
	assert.Equal(t, "PUT", got[2].method)
	assert.Equal(t, "DELETE", got[3].method)
	assert.Equal(t, "/api/categories/usage", got[4].path)
}

func TestCounter(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"enquiries": []any{map[string]any{"id": 1}, map[string]any{"id": 2}}}})
	})

	n, err := New(srv.URL).Counter("enquiries").Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoginVerifyLogout(t *testing.T) {
	expires := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second)
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
				"token":      "abc",
				"user":       map[string]any{"id": "u1", "name": "Admin", "email": "admin@example.com", "role": "admin"},
				"expires_at": expires,
			}})
		case "/api/auth/verify":
			if r.Header.Get("Authorization") != "Bearer abc" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired session"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"user": map[string]any{"id": "u1", "name": "Admin"}}})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		}
	})
	c := New(srv.URL, WithToken("ignored-for-login"))
	ctx := context.Background()

	session, err := c.Login(ctx, "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", session.Token)
	assert.Equal(t, "admin@example.com", session.User.Email)
	assert.True(t, session.ExpiresAt.Equal(expires))
	assert.Empty(t, (*calls)[0].auth)

	user, err := c.Verify(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = c.Verify(ctx, "nope")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	require.NoError(t, c.Logout(ctx, "abc"))
}

func TestGateWithClient(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired session"})
	})
	store := admin.NewFileSessionStore(t.TempDir() + "/session.json")
	gate := admin.NewGate(store, New(srv.URL))
	require.NoError(t, gate.SignIn(admin.AuthSession{Token: "revoked"}))

	_, err := gate.Check(context.Background())
	assert.ErrorIs(t, err, admin.ErrAuthCheckFailed)
	assert.Empty(t, gate.Token())
}

func TestExportEnquiries(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write([]byte("PK\x03\x04xlsx"))
	})

	var buf bytes.Buffer
	n, err := New(srv.URL, WithToken("tok")).ExportEnquiries(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, "PK\x03\x04xlsx", buf.String())
}
