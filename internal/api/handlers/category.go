package handlers

import (
	"errors"
	"tokoku/internal/config"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(cfg *config.Config) *CategoryHandler {
	return &CategoryHandler{
		categoryService: services.NewCategoryService(cfg),
	}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// GetCategories returns all categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get categories", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"categories": categories})
}

// GetCategory returns a specific category
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	category, err := h.categoryService.GetCategory(id)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, category)
}

// CreateCategory creates a category
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name, req.Slug, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrCategoryExists) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(201, category)
}

// UpdateCategory updates a category
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, err := h.categoryService.UpdateCategory(id, req.Name, req.Slug, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCategoryExists):
			c.JSON(409, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, category)
}

// DeleteCategory removes a category
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCategoryInUse):
			c.JSON(409, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, gin.H{"message": "Category deleted successfully"})
}
