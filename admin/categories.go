package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Category is a named grouping for products or gallery images.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func (c Category) RecordID() string { return c.ID }

// CategoryFromRaw maps a raw category record.
func CategoryFromRaw(raw map[string]any) (Category, bool) {
	c := Category{
		ID:    IDOf(raw),
		Name:  StringField(raw, "name", "title"),
		Slug:  StringField(raw, "slug"),
		Type:  StringField(raw, "type"),
		Count: int(NumberField(raw, "count", "usage", "total")),
	}
	return c, c.ID != "" && c.Name != ""
}

// CategoryClient is the HTTP gateway for the categories of one resource type.
type CategoryClient interface {
	List(ctx context.Context) ([]byte, error)
	Create(ctx context.Context, name string) ([]byte, error)
	Rename(ctx context.Context, id, name string) ([]byte, error)
	Delete(ctx context.Context, id string) error
	Usage(ctx context.Context) ([]byte, error)
}

// Recategorizer is a record collection that follows category renames and
// deletions. Controller implements it.
type Recategorizer interface {
	ReplaceCategory(from, to string) int
	CategoryUsage(name string) int
}

type usageRow struct {
	Name  string
	Count int
}

func (u usageRow) RecordID() string { return u.Name }

func usageFromRaw(raw map[string]any) (usageRow, bool) {
	u := usageRow{
		Name:  StringField(raw, "name", "category"),
		Count: int(NumberField(raw, "count", "usage", "total")),
	}
	return u, u.Name != ""
}

// Categories manages the category list of one resource type and keeps the
// attached record collections consistent with renames and deletions.
// Deleting a category never deletes records; they move to Uncategorized.
type Categories struct {
	client   CategoryClient
	notifier *Notifier
	timeout  time.Duration

	mu       sync.RWMutex
	items    []Category
	loaded   bool
	usage    map[string]int
	attached []Recategorizer
}

// NewCategories creates a category manager.
func NewCategories(client CategoryClient, notifier *Notifier, timeout time.Duration) *Categories {
	if notifier == nil {
		notifier = NewNotifier(0)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Categories{client: client, notifier: notifier, timeout: timeout, usage: map[string]int{}}
}

// Attach registers a record collection whose categories follow this list.
func (m *Categories) Attach(r Recategorizer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attached = append(m.attached, r)
}

// Load fetches the category list and, best effort, the usage counts.
func (m *Categories) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	raw, err := m.client.List(ctx)
	if err != nil {
		return &OpError{Kind: ErrLoadFailed, Message: UserMessage(err, "Failed to load categories"), Err: err}
	}
	items := Normalize(raw, CategoryFromRaw)

	usage := map[string]int{}
	if rawUsage, err := m.client.Usage(ctx); err == nil {
		for _, row := range Normalize(rawUsage, usageFromRaw) {
			usage[row.Name] = row.Count
		}
	}
	for _, c := range items {
		if _, ok := usage[c.Name]; !ok && c.Count > 0 {
			usage[c.Name] = c.Count
		}
	}

	m.mu.Lock()
	m.items = items
	m.usage = usage
	m.loaded = true
	m.mu.Unlock()
	return nil
}

// List returns the categories with their current usage counts.
func (m *Categories) List() []Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Category, len(m.items))
	for i, c := range m.items {
		c.Count = m.usageLocked(c.Name)
		out[i] = c
	}
	return out
}

// Names returns the allowed category values for form validation, always
// including Uncategorized. It returns nil until the list has been loaded.
func (m *Categories) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return nil
	}
	names := make([]string, 0, len(m.items)+1)
	for _, c := range m.items {
		if !strings.EqualFold(c.Name, Uncategorized) {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return append(names, Uncategorized)
}

// Usage is the number of records filed under name.
func (m *Categories) Usage(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usageLocked(name)
}

func (m *Categories) usageLocked(name string) int {
	if len(m.attached) == 0 {
		return m.usage[name]
	}
	n := 0
	for _, r := range m.attached {
		n += r.CategoryUsage(name)
	}
	return n
}

// Create adds a category after a case-insensitive uniqueness check.
func (m *Categories) Create(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if err := m.checkName(name, ""); err != nil {
		return Category{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	raw, err := m.client.Create(callCtx, name)
	if err != nil {
		return Category{}, m.fail(ErrCreateFailed, "Failed to create category", err)
	}

	cat, ok := NormalizeOne(raw, CategoryFromRaw, "category")
	if !ok {
		m.notifier.Success("Category created")
		return Category{}, m.Load(ctx)
	}

	m.mu.Lock()
	m.items = append(m.items, cat)
	m.mu.Unlock()

	m.notifier.Success(fmt.Sprintf("Category %q created", cat.Name))
	return cat, nil
}

// Rename renames a category and cascades the new name to every attached
// record that used the old one.
func (m *Categories) Rename(ctx context.Context, id, name string) (Category, error) {
	name = strings.TrimSpace(name)
	current, ok := m.find(id)
	if !ok {
		return Category{}, ErrNotFound
	}
	if strings.EqualFold(current.Name, Uncategorized) {
		return Category{}, &ValidationError{Fields: FieldErrors{"name": "The Uncategorized category cannot be renamed"}}
	}
	if err := m.checkName(name, id); err != nil {
		return Category{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	raw, err := m.client.Rename(callCtx, id, name)
	if err != nil {
		return Category{}, m.fail(ErrUpdateFailed, "Failed to rename category", err)
	}
	// The server may sanitise the name; its copy wins.
	if stored, ok := NormalizeOne(raw, CategoryFromRaw, "category"); ok && stored.Name != "" {
		name = stored.Name
	}

	m.mu.Lock()
	renamed := current
	renamed.Name = name
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Name = name
		}
	}
	if name != current.Name {
		moved := m.usage[current.Name]
		delete(m.usage, current.Name)
		m.usage[name] += moved
	}
	attached := append([]Recategorizer{}, m.attached...)
	m.mu.Unlock()

	if name != current.Name {
		for _, r := range attached {
			r.ReplaceCategory(current.Name, name)
		}
	}

	m.notifier.Success(fmt.Sprintf("Category renamed to %q", name))
	return renamed, nil
}

// Delete removes a category and reassigns its records to Uncategorized.
func (m *Categories) Delete(ctx context.Context, id string) error {
	current, ok := m.find(id)
	if !ok {
		return ErrNotFound
	}
	if strings.EqualFold(current.Name, Uncategorized) {
		return &ValidationError{Fields: FieldErrors{"name": "The Uncategorized category cannot be deleted"}}
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.client.Delete(callCtx, id); err != nil {
		return m.fail(ErrDeleteFailed, "Failed to delete category", err)
	}

	m.mu.Lock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i:i], m.items[i+1:]...)
			break
		}
	}
	m.usage[Uncategorized] += m.usage[current.Name]
	delete(m.usage, current.Name)
	attached := append([]Recategorizer{}, m.attached...)
	m.mu.Unlock()

	for _, r := range attached {
		r.ReplaceCategory(current.Name, Uncategorized)
	}

	m.notifier.Success(fmt.Sprintf("Category %q deleted", current.Name))
	return nil
}

func (m *Categories) find(id string) (Category, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.items {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// checkName enforces a non-empty name that no other category (ignoring
// case) already uses. exceptID is the category being renamed.
func (m *Categories) checkName(name, exceptID string) error {
	if name == "" {
		return &ValidationError{Fields: FieldErrors{"name": "Category name is required"}}
	}
	if strings.EqualFold(name, Uncategorized) {
		return &ValidationError{Fields: FieldErrors{"name": "Category already exists"}}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.items {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return &ValidationError{Fields: FieldErrors{"name": "Category already exists"}}
		}
	}
	return nil
}

func (m *Categories) fail(kind error, fallback string, err error) error {
	msg := UserMessage(err, fallback)
	m.notifier.Error(msg)
	return &OpError{Kind: kind, Message: msg, Err: err}
}
