package admin

import "time"

// Resource names as they appear in API paths.
const (
	ResourceProducts  = "products"
	ResourceServices  = "services"
	ResourceClients   = "clients"
	ResourceGallery   = "gallery"
	ResourceEnquiries = "enquiries"

	CategoryTypeProduct = "product"
	CategoryTypeGallery = "gallery"
)

// Gateway hands out the per-resource clients.
type Gateway interface {
	Resource(name string) ResourceClient
	Categories(kind string) CategoryClient
	Counter(name string) Counter
}

// Config tunes every controller of a Backoffice.
type Config struct {
	PageSize      int
	Timeout       time.Duration
	ToastDuration time.Duration
}

// Backoffice is one controller per resource sharing a single notifier.
type Backoffice struct {
	Notifier          *Notifier
	Products          *Controller[Product]
	Services          *Controller[Service]
	Clients           *Controller[Client]
	Gallery           *Controller[GalleryImage]
	Enquiries         *Controller[Enquiry]
	ProductCategories *Categories
	GalleryCategories *Categories
	Dashboard         *Dashboard
}

// NewBackoffice instantiates the generic controller for every resource.
func NewBackoffice(gw Gateway, cfg Config) *Backoffice {
	n := NewNotifier(cfg.ToastDuration)
	opts := func(noun, key string) Options {
		return Options{Noun: noun, RecordKey: key, PageSize: cfg.PageSize, Timeout: cfg.Timeout, Insert: Prepend}
	}

	enquiryOpts := opts("enquiry", "enquiry")
	enquiryOpts.Plural = "enquiries"

	productCats := NewCategories(gw.Categories(CategoryTypeProduct), n, cfg.Timeout)
	galleryCats := NewCategories(gw.Categories(CategoryTypeGallery), n, cfg.Timeout)

	b := &Backoffice{
		Notifier:          n,
		Products:          NewController(gw.Resource(ResourceProducts), ProductFromRaw, ProductSchema(productCats.Names), n, opts("product", "product")),
		Services:          NewController(gw.Resource(ResourceServices), ServiceFromRaw, ServiceSchema(nil), n, opts("service", "service")),
		Clients:           NewController(gw.Resource(ResourceClients), ClientFromRaw, ClientSchema(), n, opts("client", "client")),
		Gallery:           NewController(gw.Resource(ResourceGallery), GalleryImageFromRaw, GallerySchema(galleryCats.Names), n, opts("image", "image")),
		Enquiries:         NewController(gw.Resource(ResourceEnquiries), EnquiryFromRaw, EnquirySchema(), n, enquiryOpts),
		ProductCategories: productCats,
		GalleryCategories: galleryCats,
		Dashboard:         NewDashboard(cfg.Timeout),
	}
	productCats.Attach(b.Products)
	galleryCats.Attach(b.Gallery)

	for _, name := range []string{ResourceProducts, ResourceServices, ResourceClients, ResourceGallery, ResourceEnquiries} {
		b.Dashboard.Add(name, gw.Counter(name))
	}
	return b
}
