package admin

import "strings"

// Product is a catalogue item shown in the products section.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	ImageURL    string  `json:"image_url"`
}

func (p Product) RecordID() string { return p.ID }
func (p Product) SearchText() []string { return []string{p.Name, p.Description, p.Category} }
func (p Product) CategoryName() string { return p.Category }
func (p Product) StatusName() string { return p.Status }
func (p Product) WithCategory(name string) Product {
	p.Category = name
	return p
}

// ProductFromRaw maps a raw product record.
func ProductFromRaw(raw map[string]any) (Product, bool) {
	p := Product{
		ID:          IDOf(raw),
		Name:        StringField(raw, "name", "title"),
		Description: StringField(raw, "description", "desc"),
		Category:    withDefault(StringField(raw, "category", "category_name"), Uncategorized),
		Price:       NumberField(raw, "price"),
		Status:      withDefault(StringField(raw, "status"), StatusActive),
		ImageURL:    StringField(raw, "image_url", "imageUrl", "image"),
	}
	return p, p.ID != ""
}

// Service is an offered service (installation, maintenance, ...).
type Service struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Projects    int     `json:"projects"`
	Status      string  `json:"status"`
	ImageURL    string  `json:"image_url"`
}

func (s Service) RecordID() string { return s.ID }
func (s Service) SearchText() []string { return []string{s.Title, s.Description, s.Category} }
func (s Service) CategoryName() string { return s.Category }
func (s Service) StatusName() string { return s.Status }
func (s Service) WithCategory(name string) Service {
	s.Category = name
	return s
}

// ServiceFromRaw maps a raw service record.
func ServiceFromRaw(raw map[string]any) (Service, bool) {
	s := Service{
		ID:          IDOf(raw),
		Title:       StringField(raw, "title", "name"),
		Description: StringField(raw, "description", "desc"),
		Category:    withDefault(StringField(raw, "category"), Uncategorized),
		Price:       NumberField(raw, "price"),
		Projects:    int(NumberField(raw, "projects", "projects_count", "projectsCount")),
		Status:      withDefault(StringField(raw, "status"), StatusActive),
		ImageURL:    StringField(raw, "image_url", "imageUrl", "image"),
	}
	return s, s.ID != ""
}

// Client is a customer shown in the clients section.
type Client struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Industry  string  `json:"industry"`
	Status    string  `json:"status"`
	SinceYear int     `json:"since_year"`
	Rating    float64 `json:"rating"`
	LogoURL   string  `json:"logo_url"`
}

func (c Client) RecordID() string { return c.ID }
func (c Client) SearchText() []string { return []string{c.Name, c.Address, c.Industry} }
func (c Client) CategoryName() string { return c.Industry }
func (c Client) StatusName() string { return c.Status }
func (c Client) WithCategory(name string) Client {
	c.Industry = name
	return c
}

// ClientFromRaw maps a raw client record.
func ClientFromRaw(raw map[string]any) (Client, bool) {
	c := Client{
		ID:        IDOf(raw),
		Name:      StringField(raw, "name"),
		Address:   StringField(raw, "address", "location"),
		Industry:  withDefault(StringField(raw, "industry", "category"), Uncategorized),
		Status:    withDefault(StringField(raw, "status"), StatusActive),
		SinceYear: int(NumberField(raw, "since_year", "since", "sinceYear")),
		Rating:    NumberField(raw, "rating"),
		LogoURL:   StringField(raw, "logo_url", "logo", "image_url"),
	}
	return c, c.ID != ""
}

// GalleryImage is a picture in the gallery section.
type GalleryImage struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Description string `json:"description"`
	AltText     string `json:"alt_text"`
}

func (g GalleryImage) RecordID() string { return g.ID }
func (g GalleryImage) SearchText() []string { return []string{g.Title, g.Description, g.AltText} }
func (g GalleryImage) CategoryName() string { return g.Category }
func (g GalleryImage) StatusName() string { return StatusActive }
func (g GalleryImage) WithCategory(name string) GalleryImage {
	g.Category = name
	return g
}

// GalleryImageFromRaw maps a raw gallery record.
func GalleryImageFromRaw(raw map[string]any) (GalleryImage, bool) {
	g := GalleryImage{
		ID:          IDOf(raw),
		Title:       StringField(raw, "title", "name"),
		URL:         StringField(raw, "url", "image_url", "imageUrl", "src"),
		Category:    withDefault(StringField(raw, "category"), Uncategorized),
		Description: StringField(raw, "description", "desc"),
		AltText:     StringField(raw, "alt_text", "alt", "altText"),
	}
	if g.AltText == "" {
		g.AltText = g.Title
	}
	return g, g.ID != ""
}

// Enquiry is a contact-form submission.
type Enquiry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (e Enquiry) RecordID() string { return e.ID }
func (e Enquiry) SearchText() []string { return []string{e.Name, e.Email, e.Subject, e.Message} }
func (e Enquiry) CategoryName() string { return e.Subject }
func (e Enquiry) StatusName() string { return e.Status }
func (e Enquiry) WithCategory(name string) Enquiry {
	e.Subject = name
	return e
}

// EnquiryFromRaw maps a raw enquiry record.
func EnquiryFromRaw(raw map[string]any) (Enquiry, bool) {
	e := Enquiry{
		ID:        IDOf(raw),
		Name:      StringField(raw, "name", "full_name"),
		Email:     StringField(raw, "email"),
		Phone:     StringField(raw, "phone", "mobile"),
		Subject:   StringField(raw, "subject", "service"),
		Message:   StringField(raw, "message", "details"),
		Status:    withDefault(StringField(raw, "status"), "New"),
		CreatedAt: StringField(raw, "created_at", "createdAt"),
	}
	return e, e.ID != ""
}

func withDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
