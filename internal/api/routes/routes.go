package routes

import (
	"tokoku/internal/api/handlers"
	"tokoku/internal/api/middleware"
	"tokoku/internal/config"
	"tokoku/internal/models"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// Initialize services
	authService := services.NewAuthService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	accountHandler := handlers.NewAccountHandler(cfg)
	catalogHandler := handlers.NewCatalogHandler(cfg)
	productHandler := handlers.NewProductHandler(cfg)
	categoryHandler := handlers.NewCategoryHandler(cfg)
	promoHandler := handlers.NewPromoHandler(cfg)
	leadHandler := handlers.NewLeadHandler(cfg)
	settingsHandler := handlers.NewSettingsHandler(cfg)

	// Middleware
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.ErrorHandler())

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "Tokoku API is running",
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Storefront catalog
		catalog := api.Group("/catalog")
		{
			catalog.GET("/products", catalogHandler.GetProducts)
			catalog.GET("/products/:slug", catalogHandler.GetProduct)
			catalog.GET("/categories", catalogHandler.GetCategories)
		}

		// WhatsApp checkout
		api.POST("/checkout/leads", leadHandler.CreateLead)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authService))
	{
		// Auth routes (protected)
		admin.POST("/auth/logout", authHandler.Logout)
		admin.GET("/auth/me", authHandler.GetMe)

		// Product management
		products := admin.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		// Category management
		categories := admin.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.POST("", categoryHandler.CreateCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		// Promotion management
		promos := admin.Group("/promos")
		{
			promos.GET("", promoHandler.GetPromos)
			promos.GET("/:id", promoHandler.GetPromo)
			promos.POST("", promoHandler.CreatePromo)
			promos.PUT("/:id", promoHandler.UpdatePromo)
			promos.DELETE("/:id", promoHandler.DeletePromo)
			promos.POST("/:id/attach", promoHandler.AttachProducts)
			promos.POST("/:id/detach", promoHandler.DetachProducts)
		}

		// Lead inbox
		leads := admin.Group("/leads")
		{
			leads.GET("", leadHandler.GetLeads)
			leads.GET("/:id", leadHandler.GetLead)
			leads.PUT("/:id/status", leadHandler.UpdateLeadStatus)
		}

		// Account management (super admin only)
		accounts := admin.Group("/accounts")
		accounts.Use(middleware.RequireRole(models.RoleSuperAdmin))
		{
			accounts.GET("", accountHandler.GetAccounts)
			accounts.GET("/:id", accountHandler.GetAccount)
			accounts.POST("", accountHandler.CreateAccount)
			accounts.PUT("/:id", accountHandler.UpdateAccount)
			accounts.DELETE("/:id", accountHandler.DeleteAccount)
			accounts.POST("/:id/password", accountHandler.UpdatePassword)
			accounts.POST("/:id/activate", accountHandler.ActivateAccount)
			accounts.POST("/:id/deactivate", accountHandler.DeactivateAccount)
		}

		// Store settings (super admin only)
		settings := admin.Group("/settings")
		settings.Use(middleware.RequireRole(models.RoleSuperAdmin))
		{
			settings.GET("", settingsHandler.GetSettings)
			settings.PUT("", settingsHandler.UpdateSettings)
			settings.POST("/legacy-password", settingsHandler.RotateLegacyPassword)
		}
	}
}
