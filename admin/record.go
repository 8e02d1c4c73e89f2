// Package admin holds the back-office logic shared by every admin-managed
// resource: response normalization, form validation, toast notifications,
// the generic list controller and the auth session gate.
package admin

const (
	// Uncategorized is the sentinel category given to records with no
	// category or whose category was deleted.
	Uncategorized = "Uncategorized"
	// All disables a category or status filter.
	All = "All"
	// StatusActive is the status assumed when the server omits one.
	StatusActive = "Active"
)

// Identified is anything with a stable server-assigned id.
type Identified interface {
	RecordID() string
}

// Record is the contract a resource type satisfies to be managed by a
// Controller. WithCategory returns a copy with the category replaced.
type Record[T any] interface {
	Identified
	SearchText() []string
	CategoryName() string
	StatusName() string
	WithCategory(name string) T
}

// Draft holds raw form values keyed by form field name. It only lives while
// a create or edit form is open.
type Draft map[string]string

// Ptr returns a pointer to v. Handy for building a ViewPatch.
func Ptr[T any](v T) *T {
	return &v
}
