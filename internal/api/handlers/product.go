package handlers

import (
	"errors"
	"strconv"
	"tokoku/internal/config"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		productService: services.NewProductService(cfg),
	}
}

type CreateProductRequest struct {
	Name               string `json:"name" binding:"required"`
	Slug               string `json:"slug"`
	Description        string `json:"description"`
	Price              int64  `json:"price" binding:"required,gt=0"`
	PriceAfterDiscount *int64 `json:"price_after_discount"`
	Stock              *int   `json:"stock"`
	ImageURL           string `json:"image_url"`
	CategoryID         *uint  `json:"category_id"`
	PromoID            *uint  `json:"promo_id"`
}

type UpdateProductRequest struct {
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	Description        string `json:"description"`
	Price              int64  `json:"price"`
	PriceAfterDiscount *int64 `json:"price_after_discount"`
	Stock              *int   `json:"stock"`
	ImageURL           string `json:"image_url"`
	IsActive           *bool  `json:"is_active"`
	CategoryID         *uint  `json:"category_id"`
	PromoID            *uint  `json:"promo_id"`
}

// GetProducts returns products for the admin listing
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := listFilter(c)

	products, total, err := h.productService.GetProducts(filter)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get products", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"products": products, "total": total})
}

// GetProduct returns a specific product
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, product)
}

// CreateProduct creates a product
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, err := h.productService.CreateProduct(services.ProductInput{
		Name:               req.Name,
		Slug:               req.Slug,
		Description:        req.Description,
		Price:              req.Price,
		PriceAfterDiscount: req.PriceAfterDiscount,
		Stock:              req.Stock,
		ImageURL:           req.ImageURL,
		CategoryID:         req.CategoryID,
		PromoID:            req.PromoID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductExists):
			c.JSON(409, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCategoryNotFound), errors.Is(err, services.ErrPromoNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(201, product)
}

// UpdateProduct updates a product
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, err := h.productService.UpdateProduct(id, services.ProductInput{
		Name:               req.Name,
		Slug:               req.Slug,
		Description:        req.Description,
		Price:              req.Price,
		PriceAfterDiscount: req.PriceAfterDiscount,
		Stock:              req.Stock,
		ImageURL:           req.ImageURL,
		IsActive:           req.IsActive,
		CategoryID:         req.CategoryID,
		PromoID:            req.PromoID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound),
			errors.Is(err, services.ErrCategoryNotFound),
			errors.Is(err, services.ErrPromoNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrProductExists):
			c.JSON(409, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, product)
}

// DeleteProduct removes a product
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"message": "Product deleted successfully"})
}

// listFilter reads the shared product listing query parameters
func listFilter(c *gin.Context) services.ProductFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	return services.ProductFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("q"),
		Page:         page,
		PerPage:      perPage,
	}
}
