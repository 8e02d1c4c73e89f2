// Package apiclient is the HTTP gateway the back office uses to talk to the
// site API. Responses are handed back raw; the admin package reshapes them.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voltedge_site_go/admin"
)

// DefaultTimeout is the per-request timeout of the underlying http.Client.
const DefaultTimeout = 15 * time.Second

// maxBody caps how much of a response is read into memory.
const maxBody = 32 << 20

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// UserMessage is the server's message, shown as-is in toasts.
func (e *Error) UserMessage() string {
	return e.Message
}

// Client talks to the site API.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the http.Client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithToken sends a fixed bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = func() string { return token } }
}

// WithTokenSource reads the bearer token before every request.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// New creates a client for the API at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		token:   func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one request and returns the raw body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	return c.doWithToken(ctx, method, path, query, body, c.token())
}

func (c *Client) doWithToken(ctx context.Context, method, path string, query url.Values, body any, token string) ([]byte, error) {
	resp, err := c.send(ctx, method, path, query, body, token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, token string) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeError(status int, data []byte) error {
	apiErr := &Error{Status: status}
	var body struct {
		Error   string            `json:"error"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	if json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Error
		if apiErr.Message == "" {
			apiErr.Message = body.Message
		}
		apiErr.Fields = body.Fields
	}
	return apiErr
}

// Resource returns the gateway for one resource, e.g. "products".
func (c *Client) Resource(name string) admin.ResourceClient {
	return &resourceClient{c: c, path: "/api/" + url.PathEscape(name)}
}

// Categories returns the category gateway for one resource type.
func (c *Client) Categories(kind string) admin.CategoryClient {
	return &categoryClient{c: c, kind: kind}
}

// Counter counts a resource from its list response.
func (c *Client) Counter(name string) admin.Counter {
	res := c.Resource(name)
	return admin.CounterFunc(func(ctx context.Context) (int, error) {
		raw, err := res.List(ctx, admin.ListFilter{})
		if err != nil {
			return 0, err
		}
		n, ok := admin.ExtractCount(raw)
		if !ok {
			return 0, fmt.Errorf("no count in %s response", name)
		}
		return n, nil
	})
}

type resourceClient struct {
	c    *Client
	path string
}

func (r *resourceClient) List(ctx context.Context, filter admin.ListFilter) ([]byte, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Category != "" && filter.Category != admin.All {
		q.Set("category", filter.Category)
	}
	if filter.Status != "" && filter.Status != admin.All {
		q.Set("status", filter.Status)
	}
	return r.c.do(ctx, http.MethodGet, r.path, q, nil)
}

func (r *resourceClient) Create(ctx context.Context, payload map[string]any) ([]byte, error) {
	return r.c.do(ctx, http.MethodPost, r.path, nil, payload)
}

func (r *resourceClient) Update(ctx context.Context, id string, payload map[string]any) ([]byte, error) {
	return r.c.do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), nil, payload)
}

func (r *resourceClient) Delete(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil)
	return err
}

type categoryClient struct {
	c    *Client
	kind string
}

func (k *categoryClient) query() url.Values {
	return url.Values{"type": {k.kind}}
}

func (k *categoryClient) List(ctx context.Context) ([]byte, error) {
	return k.c.do(ctx, http.MethodGet, "/api/categories", k.query(), nil)
}

func (k *categoryClient) Create(ctx context.Context, name string) ([]byte, error) {
	return k.c.do(ctx, http.MethodPost, "/api/categories", k.query(), map[string]string{"name": name, "type": k.kind})
}

func (k *categoryClient) Rename(ctx context.Context, id, name string) ([]byte, error) {
	return k.c.do(ctx, http.MethodPut, "/api/categories/"+url.PathEscape(id), k.query(), map[string]string{"name": name})
}

func (k *categoryClient) Delete(ctx context.Context, id string) error {
	_, err := k.c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), k.query(), nil)
	return err
}

func (k *categoryClient) Usage(ctx context.Context) ([]byte, error) {
	return k.c.do(ctx, http.MethodGet, "/api/categories/usage", k.query(), nil)
}
