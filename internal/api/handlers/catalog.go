package handlers

import (
	"tokoku/internal/config"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public storefront: active products with
// their effective (promo-resolved) prices and the category tree.
type CatalogHandler struct {
	productService  *services.ProductService
	categoryService *services.CategoryService
}

func NewCatalogHandler(cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{
		productService:  services.NewProductService(cfg),
		categoryService: services.NewCategoryService(cfg),
	}
}

// GetProducts returns the public product listing
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	filter := listFilter(c)
	filter.ActiveOnly = true

	products, total, err := h.productService.GetProducts(filter)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get products", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"products": products, "total": total})
}

// GetProduct returns a public product by slug
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}
	if !product.IsActive {
		c.JSON(404, gin.H{"error": "product not found"})
		return
	}

	c.JSON(200, product)
}

// GetCategories returns the public category listing
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get categories", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"categories": categories})
}
