package admin

import (
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldErrors maps a form field name to its message. Empty means valid.
type FieldErrors map[string]string

// Field describes one form input and the rules it must satisfy.
type Field struct {
	Name     string // form key
	JSON     string // payload key, defaults to Name
	Label    string
	Required bool
	MinLen   int
	MaxLen   int
	Numeric  bool
	Integer  bool
	Min      *float64
	Max      *float64
	Email    bool
	// Enum returns the currently allowed values. A nil result means the
	// allowed set is not known yet and the rule is skipped.
	Enum func() []string
}

// Schema is the ordered field list of a resource form.
type Schema []Field

// Validate checks draft against every field rule. It performs no I/O.
func (s Schema) Validate(draft Draft) FieldErrors {
	errs := FieldErrors{}
	for _, f := range s {
		if msg := f.check(strings.TrimSpace(draft[f.Name])); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

func (f Field) check(value string) string {
	label := f.label()
	if value == "" {
		if f.Required {
			return label + " is required"
		}
		return ""
	}

	if n := utf8.RuneCountInString(value); f.MinLen > 0 && n < f.MinLen {
		return fmt.Sprintf("%s must be at least %d characters", label, f.MinLen)
	} else if f.MaxLen > 0 && n > f.MaxLen {
		return fmt.Sprintf("%s must be at most %d characters", label, f.MaxLen)
	}

	if f.Numeric || f.Integer {
		num, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
			return label + " must be a number"
		}
		if f.Integer && num != math.Trunc(num) {
			return label + " must be a whole number"
		}
		switch {
		case f.Min != nil && f.Max != nil && (num < *f.Min || num > *f.Max):
			return fmt.Sprintf("%s must be between %s and %s", label, formatNum(*f.Min), formatNum(*f.Max))
		case f.Min != nil && num < *f.Min:
			if *f.Min == 0 {
				return label + " cannot be negative"
			}
			return fmt.Sprintf("%s must be at least %s", label, formatNum(*f.Min))
		case f.Max != nil && num > *f.Max:
			return fmt.Sprintf("%s must be at most %s", label, formatNum(*f.Max))
		}
	}

	if f.Email {
		if _, err := mail.ParseAddress(value); err != nil {
			return label + " must be a valid email address"
		}
	}

	if f.Enum != nil {
		if allowed := f.Enum(); allowed != nil && !contains(allowed, value) {
			return fmt.Sprintf("%s must be one of: %s", label, strings.Join(allowed, ", "))
		}
	}
	return ""
}

// Payload converts a draft into the JSON body sent to the server. Numeric
// fields become numbers; empty optional numeric fields are omitted.
func (s Schema) Payload(draft Draft) map[string]any {
	body := make(map[string]any, len(s))
	for _, f := range s {
		value, present := draft[f.Name]
		if !present {
			continue
		}
		value = strings.TrimSpace(value)
		key := f.JSON
		if key == "" {
			key = f.Name
		}
		switch {
		case f.Integer:
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				body[key] = int64(n)
			}
		case f.Numeric:
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				body[key] = n
			}
		default:
			body[key] = value
		}
	}
	return body
}

// Field returns the named field.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	if f.Name == "" {
		return "Field"
	}
	return strings.ToUpper(f.Name[:1]) + f.Name[1:]
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func bound(v float64) *float64 {
	return &v
}

// Fixed values.
var (
	ProductStatuses = []string{"Active", "Inactive", "Out of Stock"}
	ServiceStatuses = []string{"Active", "Inactive"}
	ClientStatuses  = []string{"Active", "Inactive", "Prospect"}
	EnquiryStatuses = []string{"New", "Read", "Replied", "Archived"}
)

func fixed(values []string) func() []string {
	return func() []string { return values }
}

// ProductSchema builds the product form rules. categories supplies the
// currently known category names.
func ProductSchema(categories func() []string) Schema {
	return Schema{
		{Name: "name", Required: true, MaxLen: 120},
		{Name: "desc", JSON: "description", Label: "Description", MaxLen: 2000},
		{Name: "category", Enum: categories},
		{Name: "price", Required: true, Numeric: true, Min: bound(0)},
		{Name: "status", Enum: fixed(ProductStatuses)},
		{Name: "image", JSON: "image_url", Label: "Image"},
	}
}

// ServiceSchema builds the service form rules.
func ServiceSchema(categories func() []string) Schema {
	return Schema{
		{Name: "title", Required: true, MinLen: 3, MaxLen: 120},
		{Name: "desc", JSON: "description", Label: "Description", Required: true, MinLen: 10},
		{Name: "price", Required: true, Numeric: true, Min: bound(0)},
		{Name: "category", Enum: categories},
		{Name: "projects", Label: "Projects count", Integer: true, Min: bound(0)},
		{Name: "status", Enum: fixed(ServiceStatuses)},
		{Name: "image", JSON: "image_url", Label: "Image"},
	}
}

// ClientSchema builds the client form rules.
func ClientSchema() Schema {
	return Schema{
		{Name: "name", Required: true, MaxLen: 120},
		{Name: "address", MaxLen: 255},
		{Name: "industry", MaxLen: 80},
		{Name: "status", Enum: fixed(ClientStatuses)},
		{Name: "since", JSON: "since_year", Label: "Client since", Integer: true, Min: bound(1900), Max: bound(2100)},
		{Name: "rating", Numeric: true, Min: bound(0), Max: bound(5)},
		{Name: "logo", JSON: "logo_url", Label: "Logo"},
	}
}

// GallerySchema builds the gallery image form rules.
func GallerySchema(categories func() []string) Schema {
	return Schema{
		{Name: "title", Required: true, MaxLen: 120},
		{Name: "url", Label: "Image", Required: true},
		{Name: "category", Enum: categories},
		{Name: "desc", JSON: "description", Label: "Description", MaxLen: 1000},
		{Name: "alt", JSON: "alt_text", Label: "Alt text", MaxLen: 255},
	}
}

// EnquirySchema only covers what the back office may change on an enquiry.
func EnquirySchema() Schema {
	return Schema{
		{Name: "status", Required: true, Enum: fixed(EnquiryStatuses)},
	}
}
