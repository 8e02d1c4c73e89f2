package main

import (
	"log"
	"time"
	"voltedge_site_go/config"
	"voltedge_site_go/db"
	"voltedge_site_go/handlers"
	"voltedge_site_go/middleware"
	"voltedge_site_go/models"
	"voltedge_site_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Product{},
		&models.Service{},
		&models.Client{},
		&models.GalleryImage{},
		&models.Category{},
		&models.Enquiry{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := services.EnsureUncategorized(db.DB); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}

	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files (local uploads are served from here too)
	e.Static("/static", "static")

	// Public site
	e.GET("/", handlers.LandingHandler)
	e.GET("/healthz", handlers.HealthHandler)

	api := e.Group("/api")
	api.Use(middleware.APIRateLimiter.Middleware())

	// Public API
	api.POST("/enquiries", handlers.SubmitEnquiryHandler, middleware.PublicFormRateLimiter.Middleware())
	api.POST("/auth/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())

	api.GET("/products", handlers.ListProductsHandler)
	api.GET("/products/:id", handlers.GetProductHandler)
	api.GET("/services", handlers.ListServicesHandler)
	api.GET("/services/:id", handlers.GetServiceHandler)
	api.GET("/clients", handlers.ListClientsHandler)
	api.GET("/clients/:id", handlers.GetClientHandler)
	api.GET("/gallery", handlers.ListGalleryHandler)
	api.GET("/gallery/:id", handlers.GetGalleryImageHandler)

	// Session endpoints (any signed-in user)
	session := api.Group("/auth")
	session.Use(middleware.RequireAuth())
	{
		session.GET("/verify", handlers.VerifyHandler)
		session.POST("/logout", handlers.LogoutHandler)
	}

	// Back office
	protected := api.Group("")
	protected.Use(middleware.RequireAuth())
	protected.Use(middleware.RequireRole(models.RoleAdmin))
	{
		protected.POST("/products", handlers.CreateProductHandler)
		protected.PUT("/products/:id", handlers.UpdateProductHandler)
		protected.DELETE("/products/:id", handlers.DeleteProductHandler)

		protected.POST("/services", handlers.CreateServiceHandler)
		protected.PUT("/services/:id", handlers.UpdateServiceHandler)
		protected.DELETE("/services/:id", handlers.DeleteServiceHandler)

		protected.POST("/clients", handlers.CreateClientHandler)
		protected.PUT("/clients/:id", handlers.UpdateClientHandler)
		protected.DELETE("/clients/:id", handlers.DeleteClientHandler)

		protected.POST("/gallery", handlers.CreateGalleryImageHandler)
		protected.PUT("/gallery/:id", handlers.UpdateGalleryImageHandler)
		protected.DELETE("/gallery/:id", handlers.DeleteGalleryImageHandler)

		protected.GET("/categories", handlers.ListCategoriesHandler)
		protected.GET("/categories/usage", handlers.CategoryUsageHandler)
		protected.POST("/categories", handlers.CreateCategoryHandler)
		protected.PUT("/categories/:id", handlers.RenameCategoryHandler)
		protected.DELETE("/categories/:id", handlers.DeleteCategoryHandler)

		protected.GET("/enquiries", handlers.ListEnquiriesHandler)
		protected.GET("/enquiries/export", handlers.ExportEnquiriesHandler)
		protected.GET("/enquiries/:id", handlers.GetEnquiryHandler)
		protected.PUT("/enquiries/:id", handlers.UpdateEnquiryHandler)
		protected.DELETE("/enquiries/:id", handlers.DeleteEnquiryHandler)

		protected.POST("/uploads", handlers.UploadImageHandler)
		protected.GET("/dashboard/stats", handlers.DashboardStatsHandler)
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
