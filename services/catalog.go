package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
	"voltedge_site_go/models"

	"gorm.io/gorm"
)

// FilterAll disables a category or status filter.
const FilterAll = "All"

// ListFilters narrows list queries. Limit 0 returns everything.
type ListFilters struct {
	Search   string
	Category string
	Status   string
	Page     int
	Limit    int
}

// listSpec names the columns a resource exposes to ListFilters.
type listSpec struct {
	search   []string
	category string
	status   string
}

var (
	productList = listSpec{search: []string{"name", "description", "category"}, category: "category", status: "status"}
	serviceList = listSpec{search: []string{"title", "description", "category"}, category: "category", status: "status"}
	clientList  = listSpec{search: []string{"name", "address", "industry"}, category: "industry", status: "status"}
	galleryList = listSpec{search: []string{"title", "description", "alt_text"}, category: "category"}
	enquiryList = listSpec{search: []string{"name", "email", "subject", "message"}, category: "subject", status: "status"}
)

var (
	productStatuses = []string{models.StatusActive, models.StatusInactive, models.StatusOutOfStock}
	serviceStatuses = []string{models.StatusActive, models.StatusInactive}
	clientStatuses  = []string{models.StatusActive, models.StatusInactive, models.StatusProspect}
)

func listRecords[T any](db *gorm.DB, spec listSpec, f ListFilters) ([]T, int64, error) {
	q := db.Model(new(T))

	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" && len(spec.search) > 0 {
		like := "%" + term + "%"
		clauses := make([]string, len(spec.search))
		args := make([]interface{}, len(spec.search))
		for i, col := range spec.search {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		q = q.Where(strings.Join(clauses, " OR "), args...)
	}
	if spec.category != "" && f.Category != "" && f.Category != FilterAll {
		q = q.Where(spec.category+" = ?", f.Category)
	}
	if spec.status != "" && f.Status != "" && f.Status != FilterAll {
		q = q.Where(spec.status+" = ?", f.Status)
	}

	base := q.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count records: %w", err)
	}

	list := base.Order("created_at DESC")
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		list = list.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	items := []T{}
	if err := list.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list records: %w", err)
	}
	return items, total, nil
}

func getRecord[T any](db *gorm.DB, id string) (*T, error) {
	var rec T
	if err := db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return &rec, nil
}

func countRecords[T any](db *gorm.DB, where ...interface{}) int64 {
	var n int64
	q := db.Model(new(T))
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	q.Count(&n)
	return n
}

// ---- validation helpers ----

func checkText(errs fieldErrors, field, label string, v *string, required bool, minLen, maxLen int) {
	if v == nil || strings.TrimSpace(*v) == "" {
		if required {
			errs.add(field, label+" is required")
		}
		return
	}
	n := utf8.RuneCountInString(strings.TrimSpace(*v))
	if minLen > 0 && n < minLen {
		errs.add(field, fmt.Sprintf("%s must be at least %d characters", label, minLen))
	}
	if maxLen > 0 && n > maxLen {
		errs.add(field, fmt.Sprintf("%s must be at most %d characters", label, maxLen))
	}
}

func checkNumber(errs fieldErrors, field, label string, v *float64, required bool, min, max float64) {
	if v == nil {
		if required {
			errs.add(field, label+" is required")
		}
		return
	}
	switch {
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		errs.add(field, label+" must be a number")
	case !math.IsInf(max, 1) && (*v < min || *v > max):
		errs.add(field, fmt.Sprintf("%s must be between %g and %g", label, min, max))
	case *v < min && min == 0:
		errs.add(field, label+" cannot be negative")
	case *v < min:
		errs.add(field, fmt.Sprintf("%s must be at least %g", label, min))
	}
}

func checkEnum(errs fieldErrors, field, label string, v *string, allowed []string) {
	if v == nil || *v == "" {
		return
	}
	for _, a := range allowed {
		if *v == a {
			return
		}
	}
	errs.add(field, fmt.Sprintf("%s must be one of: %s", label, strings.Join(allowed, ", ")))
}

// checkCategory requires name to be a known category of kind. Empty means
// Uncategorized.
func checkCategory(db *gorm.DB, errs fieldErrors, kind string, v *string) {
	if v == nil {
		return
	}
	name := strings.TrimSpace(*v)
	if name == "" || strings.EqualFold(name, models.Uncategorized) {
		*v = models.Uncategorized
		return
	}
	var cat models.Category
	if err := db.Where("type = ? AND LOWER(name) = ?", kind, strings.ToLower(name)).First(&cat).Error; err != nil {
		errs.add("category", fmt.Sprintf("Category %q does not exist", name))
		return
	}
	*v = cat.Name
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = SanitizeText(*v)
	}
}

var unbounded = math.Inf(1)

// storeImageField stores a data URL image and reports bad images as a
// validation error on field.
func storeImageField(ctx context.Context, prefix, field, value string) (string, error) {
	url, err := StoreImage(ctx, Storage, prefix, value)
	if errors.Is(err, ErrInvalidImage) {
		return "", &ValidationError{Fields: map[string]string{field: err.Error()}}
	}
	return url, err
}

// ---- products ----

type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Status      *string  `json:"status"`
	ImageURL    *string  `json:"image_url"`
}

func (in *ProductInput) validate(db *gorm.DB, creating bool) error {
	errs := fieldErrors{}
	checkText(errs, "name", "Name", in.Name, creating || in.Name != nil, 0, 120)
	checkText(errs, "description", "Description", in.Description, false, 0, 2000)
	checkNumber(errs, "price", "Price", in.Price, creating, 0, unbounded)
	checkEnum(errs, "status", "Status", in.Status, productStatuses)
	checkCategory(db, errs, models.CategoryTypeProduct, in.Category)
	return errs.err()
}

func (in *ProductInput) apply(ctx context.Context, p *models.Product) error {
	setText(&p.Name, in.Name)
	setText(&p.Description, in.Description)
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Status != nil && *in.Status != "" {
		p.Status = *in.Status
	}
	if in.ImageURL != nil {
		url, err := storeImageField(ctx, "products", "image_url", *in.ImageURL)
		if err != nil {
			return err
		}
		p.ImageURL = url
	}
	return nil
}

func ListProducts(db *gorm.DB, f ListFilters) ([]models.Product, int64, error) {
	return listRecords[models.Product](db, productList, f)
}

func GetProduct(db *gorm.DB, id string) (*models.Product, error) {
	return getRecord[models.Product](db, id)
}

func CreateProduct(ctx context.Context, db *gorm.DB, in ProductInput) (*models.Product, error) {
	if err := in.validate(db, true); err != nil {
		return nil, err
	}
	p := &models.Product{Category: models.Uncategorized, Status: models.StatusActive}
	if err := in.apply(ctx, p); err != nil {
		return nil, err
	}
	if err := db.Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func UpdateProduct(ctx context.Context, db *gorm.DB, id string, in ProductInput) (*models.Product, error) {
	p, err := GetProduct(db, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(db, false); err != nil {
		return nil, err
	}
	oldImage := p.ImageURL
	if err := in.apply(ctx, p); err != nil {
		return nil, err
	}
	if err := db.Save(p).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if oldImage != p.ImageURL {
		RemoveStoredImage(ctx, Storage, oldImage)
	}
	return p, nil
}

func DeleteProduct(ctx context.Context, db *gorm.DB, id string) error {
	p, err := GetProduct(db, id)
	if err != nil {
		return err
	}
	if err := db.Delete(p).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	RemoveStoredImage(ctx, Storage, p.ImageURL)
	return nil
}

// ---- services ----

type ServiceInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Projects    *float64 `json:"projects"`
	Status      *string  `json:"status"`
	ImageURL    *string  `json:"image_url"`
}

func (in *ServiceInput) validate(creating bool) error {
	errs := fieldErrors{}
	checkText(errs, "title", "Title", in.Title, creating || in.Title != nil, 3, 120)
	checkText(errs, "description", "Description", in.Description, creating || in.Description != nil, 10, 5000)
	checkNumber(errs, "price", "Price", in.Price, creating, 0, unbounded)
	checkNumber(errs, "projects", "Projects count", in.Projects, false, 0, unbounded)
	if in.Projects != nil && *in.Projects != math.Trunc(*in.Projects) {
		errs.add("projects", "Projects count must be a whole number")
	}
	checkEnum(errs, "status", "Status", in.Status, serviceStatuses)
	return errs.err()
}

func (in *ServiceInput) apply(ctx context.Context, s *models.Service) error {
	setText(&s.Title, in.Title)
	if in.Description != nil {
		s.Description = SanitizeHTML(*in.Description)
	}
	if in.Category != nil {
		s.Category = SanitizeText(*in.Category)
		if s.Category == "" {
			s.Category = models.Uncategorized
		}
	}
	if in.Price != nil {
		s.Price = *in.Price
	}
	if in.Projects != nil {
		s.Projects = int(*in.Projects)
	}
	if in.Status != nil && *in.Status != "" {
		s.Status = *in.Status
	}
	if in.ImageURL != nil {
		url, err := storeImageField(ctx, "services", "image_url", *in.ImageURL)
		if err != nil {
			return err
		}
		s.ImageURL = url
	}
	return nil
}

func ListServices(db *gorm.DB, f ListFilters) ([]models.Service, int64, error) {
	return listRecords[models.Service](db, serviceList, f)
}

func GetService(db *gorm.DB, id string) (*models.Service, error) {
	return getRecord[models.Service](db, id)
}

func CreateService(ctx context.Context, db *gorm.DB, in ServiceInput) (*models.Service, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	s := &models.Service{Category: models.Uncategorized, Status: models.StatusActive}
	if err := in.apply(ctx, s); err != nil {
		return nil, err
	}
	if err := db.Create(s).Error; err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s, nil
}

func UpdateService(ctx context.Context, db *gorm.DB, id string, in ServiceInput) (*models.Service, error) {
	s, err := GetService(db, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(false); err != nil {
		return nil, err
	}
	oldImage := s.ImageURL
	if err := in.apply(ctx, s); err != nil {
		return nil, err
	}
	if err := db.Save(s).Error; err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	if oldImage != s.ImageURL {
		RemoveStoredImage(ctx, Storage, oldImage)
	}
	return s, nil
}

func DeleteService(ctx context.Context, db *gorm.DB, id string) error {
	s, err := GetService(db, id)
	if err != nil {
		return err
	}
	if err := db.Delete(s).Error; err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	RemoveStoredImage(ctx, Storage, s.ImageURL)
	return nil
}

// ---- clients ----

type ClientInput struct {
	Name      *string  `json:"name"`
	Address   *string  `json:"address"`
	Industry  *string  `json:"industry"`
	Status    *string  `json:"status"`
	SinceYear *float64 `json:"since_year"`
	Rating    *float64 `json:"rating"`
	LogoURL   *string  `json:"logo_url"`
}

func (in *ClientInput) validate(creating bool) error {
	errs := fieldErrors{}
	checkText(errs, "name", "Name", in.Name, creating || in.Name != nil, 0, 120)
	checkText(errs, "address", "Address", in.Address, false, 0, 255)
	checkText(errs, "industry", "Industry", in.Industry, false, 0, 80)
	checkEnum(errs, "status", "Status", in.Status, clientStatuses)
	checkNumber(errs, "since_year", "Client since", in.SinceYear, false, 1900, 2100)
	if in.SinceYear != nil && *in.SinceYear != math.Trunc(*in.SinceYear) {
		errs.add("since_year", "Client since must be a whole number")
	}
	checkNumber(errs, "rating", "Rating", in.Rating, false, 0, 5)
	return errs.err()
}

func (in *ClientInput) apply(ctx context.Context, c *models.Client) error {
	setText(&c.Name, in.Name)
	setText(&c.Address, in.Address)
	setText(&c.Industry, in.Industry)
	if in.Status != nil && *in.Status != "" {
		c.Status = *in.Status
	}
	if in.SinceYear != nil {
		year := int(*in.SinceYear)
		c.SinceYear = &year
	}
	if in.Rating != nil {
		c.Rating = *in.Rating
	}
	if in.LogoURL != nil {
		url, err := storeImageField(ctx, "clients", "logo_url", *in.LogoURL)
		if err != nil {
			return err
		}
		c.LogoURL = url
	}
	return nil
}

func ListClients(db *gorm.DB, f ListFilters) ([]models.Client, int64, error) {
	return listRecords[models.Client](db, clientList, f)
}

func GetClient(db *gorm.DB, id string) (*models.Client, error) {
	return getRecord[models.Client](db, id)
}

func CreateClient(ctx context.Context, db *gorm.DB, in ClientInput) (*models.Client, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	c := &models.Client{Status: models.StatusActive}
	if err := in.apply(ctx, c); err != nil {
		return nil, err
	}
	if err := db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

func UpdateClient(ctx context.Context, db *gorm.DB, id string, in ClientInput) (*models.Client, error) {
	c, err := GetClient(db, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(false); err != nil {
		return nil, err
	}
	oldLogo := c.LogoURL
	if err := in.apply(ctx, c); err != nil {
		return nil, err
	}
	if err := db.Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	if oldLogo != c.LogoURL {
		RemoveStoredImage(ctx, Storage, oldLogo)
	}
	return c, nil
}

func DeleteClient(ctx context.Context, db *gorm.DB, id string) error {
	c, err := GetClient(db, id)
	if err != nil {
		return err
	}
	if err := db.Delete(c).Error; err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	RemoveStoredImage(ctx, Storage, c.LogoURL)
	return nil
}

// ---- gallery ----

type GalleryImageInput struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	AltText     *string `json:"alt_text"`
}

func (in *GalleryImageInput) validate(db *gorm.DB, creating bool) error {
	errs := fieldErrors{}
	checkText(errs, "title", "Title", in.Title, creating || in.Title != nil, 0, 120)
	if creating || in.URL != nil {
		checkText(errs, "url", "Image", in.URL, true, 0, 0)
	}
	checkText(errs, "description", "Description", in.Description, false, 0, 1000)
	checkText(errs, "alt_text", "Alt text", in.AltText, false, 0, 255)
	checkCategory(db, errs, models.CategoryTypeGallery, in.Category)
	return errs.err()
}

func (in *GalleryImageInput) apply(ctx context.Context, g *models.GalleryImage) error {
	setText(&g.Title, in.Title)
	setText(&g.Description, in.Description)
	setText(&g.AltText, in.AltText)
	if in.Category != nil {
		g.Category = *in.Category
	}
	if in.URL != nil {
		url, err := storeImageField(ctx, "gallery", "url", *in.URL)
		if err != nil {
			return err
		}
		g.URL = url
	}
	if g.AltText == "" {
		g.AltText = g.Title
	}
	return nil
}

func ListGalleryImages(db *gorm.DB, f ListFilters) ([]models.GalleryImage, int64, error) {
	return listRecords[models.GalleryImage](db, galleryList, f)
}

func GetGalleryImage(db *gorm.DB, id string) (*models.GalleryImage, error) {
	return getRecord[models.GalleryImage](db, id)
}

func CreateGalleryImage(ctx context.Context, db *gorm.DB, in GalleryImageInput) (*models.GalleryImage, error) {
	if err := in.validate(db, true); err != nil {
		return nil, err
	}
	g := &models.GalleryImage{Category: models.Uncategorized}
	if err := in.apply(ctx, g); err != nil {
		return nil, err
	}
	if err := db.Create(g).Error; err != nil {
		return nil, fmt.Errorf("failed to create gallery image: %w", err)
	}
	return g, nil
}

func UpdateGalleryImage(ctx context.Context, db *gorm.DB, id string, in GalleryImageInput) (*models.GalleryImage, error) {
	g, err := GetGalleryImage(db, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(db, false); err != nil {
		return nil, err
	}
	oldURL := g.URL
	if err := in.apply(ctx, g); err != nil {
		return nil, err
	}
	if err := db.Save(g).Error; err != nil {
		return nil, fmt.Errorf("failed to update gallery image: %w", err)
	}
	if oldURL != g.URL {
		RemoveStoredImage(ctx, Storage, oldURL)
	}
	return g, nil
}

func DeleteGalleryImage(ctx context.Context, db *gorm.DB, id string) error {
	g, err := GetGalleryImage(db, id)
	if err != nil {
		return err
	}
	if err := db.Delete(g).Error; err != nil {
		return fmt.Errorf("failed to delete gallery image: %w", err)
	}
	RemoveStoredImage(ctx, Storage, g.URL)
	return nil
}
