package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultPageSize is the page size used when Options.PageSize is unset.
	DefaultPageSize = 10
	// DefaultTimeout bounds every resource client call.
	DefaultTimeout = 15 * time.Second
)

// ListFilter is passed through to the resource client on list calls.
type ListFilter struct {
	Search   string
	Category string
	Status   string
}

// ResourceClient is the HTTP gateway for one resource type. Responses are
// returned raw and reshaped by the normalizer.
type ResourceClient interface {
	List(ctx context.Context, filter ListFilter) ([]byte, error)
	Create(ctx context.Context, payload map[string]any) ([]byte, error)
	Update(ctx context.Context, id string, payload map[string]any) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// InsertPosition decides where newly created records go.
type InsertPosition int

const (
	Prepend InsertPosition = iota
	Append
)

// Options configures a Controller.
type Options struct {
	// Noun is the human name used in toasts ("product"); Plural defaults
	// to Noun+"s".
	Noun   string
	Plural string
	// RecordKey is the singular response key wrapping a record ("product").
	RecordKey string
	PageSize  int
	Timeout   time.Duration
	Insert    InsertPosition
}

// ViewState is the process-local filter and pagination state.
type ViewState struct {
	Search   string
	Category string
	Status   string
	Page     int
}

// ViewPatch updates part of a ViewState. Nil fields are left alone.
type ViewPatch struct {
	Search   *string
	Category *string
	Status   *string
	Page     *int
}

// Controller owns the canonical collection of one resource type and
// reconciles it with the server after every mutation.
type Controller[T Record[T]] struct {
	client   ResourceClient
	mapper   Mapper[T]
	schema   Schema
	notifier *Notifier
	opts     Options

	mu         sync.RWMutex
	canonical  []T
	loading    bool
	submitting bool
	lastError  error
	view       ViewState
}

// NewController wires a controller for one resource type.
func NewController[T Record[T]](client ResourceClient, mapper Mapper[T], schema Schema, notifier *Notifier, opts Options) *Controller[T] {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Noun == "" {
		opts.Noun = "record"
	}
	if opts.Plural == "" {
		opts.Plural = opts.Noun + "s"
	}
	if notifier == nil {
		notifier = NewNotifier(0)
	}
	return &Controller[T]{
		client:    client,
		mapper:    mapper,
		schema:    schema,
		notifier:  notifier,
		opts:      opts,
		canonical: []T{},
		view:      ViewState{Category: All, Status: All, Page: 1},
	}
}

// Load replaces the canonical collection with the server's list. On
// failure the last known good list is kept and LastError reports
// ErrLoadFailed until the next successful load.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	raw, err := c.client.List(ctx, ListFilter{})
	if err == nil && !json.Valid(raw) {
		err = fmt.Errorf("malformed %s list response", c.opts.Noun)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastError = &OpError{
			Kind:    ErrLoadFailed,
			Message: UserMessage(err, "Failed to load " + c.opts.Plural),
			Err:     err,
		}
		return c.lastError
	}
	c.canonical = Normalize(raw, c.mapper)
	c.lastError = nil
	return nil
}

// Retry is the manual "Try Again" after a failed load.
func (c *Controller[T]) Retry(ctx context.Context) error {
	return c.Load(ctx)
}

// Create validates draft and, when valid, asks the server to create it.
// The returned record is prepended (or appended) to the canonical list. If
// the server does not echo the record the list is reloaded and the zero
// value is returned.
func (c *Controller[T]) Create(ctx context.Context, draft Draft) (T, error) {
	var zero T
	if errs := c.schema.Validate(draft); len(errs) > 0 {
		return zero, &ValidationError{Fields: errs}
	}
	if !c.begin() {
		return zero, ErrBusy
	}
	defer c.end()

	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	raw, err := c.client.Create(callCtx, c.schema.Payload(draft))
	if err != nil {
		return zero, c.fail(ErrCreateFailed, fmt.Sprintf("Failed to create %s", c.opts.Noun), err)
	}

	rec, ok := NormalizeOne(raw, c.mapper, c.opts.RecordKey)
	if !ok {
		c.notifier.Success(c.title() + " created")
		return zero, c.resync(ctx)
	}

	c.mu.Lock()
	if i := c.indexLocked(rec.RecordID()); i >= 0 {
		c.canonical[i] = rec
	} else if c.opts.Insert == Append {
		c.canonical = append(c.canonical, rec)
	} else {
		c.canonical = append([]T{rec}, c.canonical...)
	}
	c.mu.Unlock()

	c.notifier.Success(c.title() + " created")
	return rec, nil
}

// Update validates draft and replaces the record with the server's copy,
// falling back to a full reload when the server returns no record.
func (c *Controller[T]) Update(ctx context.Context, id string, draft Draft) (T, error) {
	var zero T
	if errs := c.schema.Validate(draft); len(errs) > 0 {
		return zero, &ValidationError{Fields: errs}
	}
	if !c.begin() {
		return zero, ErrBusy
	}
	defer c.end()

	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	raw, err := c.client.Update(callCtx, id, c.schema.Payload(draft))
	if err != nil {
		return zero, c.fail(ErrUpdateFailed, fmt.Sprintf("Failed to update %s", c.opts.Noun), err)
	}

	rec, ok := NormalizeOne(raw, c.mapper, c.opts.RecordKey)
	if ok {
		c.mu.Lock()
		i := c.indexLocked(rec.RecordID())
		if i >= 0 {
			c.canonical[i] = rec
		}
		c.mu.Unlock()
		if i >= 0 {
			c.notifier.Success(c.title() + " updated")
			return rec, nil
		}
	}

	c.notifier.Success(c.title() + " updated")
	if err := c.resync(ctx); err != nil {
		return zero, err
	}
	if fresh, found := c.Get(id); found {
		return fresh, nil
	}
	return zero, nil
}

// Delete removes the record only after the server confirms.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if !c.begin() {
		return ErrBusy
	}
	defer c.end()

	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	if err := c.client.Delete(callCtx, id); err != nil {
		return c.fail(ErrDeleteFailed, fmt.Sprintf("Failed to delete %s", c.opts.Noun), err)
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.canonical = append(c.canonical[:i:i], c.canonical[i+1:]...)
	}
	c.mu.Unlock()

	c.notifier.Success(c.title() + " deleted")
	return nil
}

// SetFilter merges patch into the view. Changing search, category or
// status always returns to page 1.
func (c *Controller[T]) SetFilter(patch ViewPatch) ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	if patch.Search != nil && *patch.Search != c.view.Search {
		c.view.Search = *patch.Search
		changed = true
	}
	if patch.Category != nil && normalizeFilter(*patch.Category) != c.view.Category {
		c.view.Category = normalizeFilter(*patch.Category)
		changed = true
	}
	if patch.Status != nil && normalizeFilter(*patch.Status) != c.view.Status {
		c.view.Status = normalizeFilter(*patch.Status)
		changed = true
	}

	switch {
	case changed:
		c.view.Page = 1
	case patch.Page != nil:
		c.view.Page = *patch.Page
		if c.view.Page < 1 {
			c.view.Page = 1
		}
	}
	return c.view
}

// View returns the current filter state.
func (c *Controller[T]) View() ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Records returns a copy of the canonical collection.
func (c *Controller[T]) Records() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T{}, c.canonical...)
}

// Get looks a record up by id.
func (c *Controller[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.canonical[i], true
	}
	var zero T
	return zero, false
}

// Filtered returns the records matching the current view.
func (c *Controller[T]) Filtered() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FilterRecords(c.canonical, c.view)
}

// Page returns the current page window of Filtered. The page is clamped to
// the available range.
func (c *Controller[T]) Page() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	filtered := FilterRecords(c.canonical, c.view)
	page := clampPage(c.view.Page, len(filtered), c.opts.PageSize)
	return Paginate(filtered, page, c.opts.PageSize)
}

// TotalPages is the number of pages of the filtered list, at least 1.
func (c *Controller[T]) TotalPages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return TotalPages(len(FilterRecords(c.canonical, c.view)), c.opts.PageSize)
}

// PageSize reports the configured page size.
func (c *Controller[T]) PageSize() int {
	return c.opts.PageSize
}

func (c *Controller[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Controller[T]) Submitting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.submitting
}

// LastError is the persistent load error, nil after a successful load.
func (c *Controller[T]) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Schema exposes the form rules, e.g. to render inline field hints.
func (c *Controller[T]) Schema() Schema {
	return c.schema
}

// ReplaceCategory rewrites every record filed under from to to and returns
// how many changed.
func (c *Controller[T]) ReplaceCategory(from, to string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for i, rec := range c.canonical {
		if rec.CategoryName() == from {
			c.canonical[i] = rec.WithCategory(to)
			n++
		}
	}
	return n
}

// CategoryUsage counts records filed under name.
func (c *Controller[T]) CategoryUsage(name string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, rec := range c.canonical {
		if rec.CategoryName() == name {
			n++
		}
	}
	return n
}

func (c *Controller[T]) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return false
	}
	c.submitting = true
	return true
}

func (c *Controller[T]) end() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

func (c *Controller[T]) fail(kind error, fallback string, err error) error {
	msg := UserMessage(err, fallback)
	c.notifier.Error(msg)
	return &OpError{Kind: kind, Message: msg, Err: err}
}

// resync reloads after a mutation whose response could not be applied.
func (c *Controller[T]) resync(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		c.notifier.Error("Saved, but failed to refresh " + c.opts.Plural)
		return err
	}
	return nil
}

func (c *Controller[T]) indexLocked(id string) int {
	for i, rec := range c.canonical {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

func (c *Controller[T]) title() string {
	return strings.ToUpper(c.opts.Noun[:1]) + c.opts.Noun[1:]
}

func normalizeFilter(v string) string {
	if strings.TrimSpace(v) == "" {
		return All
	}
	return v
}

// FilterRecords applies the view predicate: case-insensitive substring
// search across SearchText, and equality on category and status unless
// they are All.
func FilterRecords[T Record[T]](records []T, view ViewState) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if Matches(rec, view) {
			out = append(out, rec)
		}
	}
	return out
}

// Matches reports whether rec passes the view's filters.
func Matches[T Record[T]](rec T, view ViewState) bool {
	return matchesSearch(rec.SearchText(), view.Search) &&
		matchesEquality(rec.CategoryName(), view.Category) &&
		matchesEquality(rec.StatusName(), view.Status)
}

func matchesSearch(fields []string, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func matchesEquality(value, filter string) bool {
	return filter == "" || filter == All || value == filter
}

// Paginate returns items[(page-1)*size : page*size], clipped to bounds.
func Paginate[T any](items []T, page, size int) []T {
	if size < 1 || page < 1 || len(items) == 0 || page-1 > (len(items)-1)/size {
		return []T{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return append([]T{}, items[start:end]...)
}

// TotalPages returns ceil(n/size), at least 1.
func TotalPages(n, size int) int {
	if size < 1 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

func clampPage(page, n, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(n, size); page > last {
		return last
	}
	return page
}
