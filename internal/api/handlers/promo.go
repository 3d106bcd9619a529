package handlers

import (
	"errors"
	"time"
	"tokoku/internal/config"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

type PromoHandler struct {
	promoService *services.PromoService
}

func NewPromoHandler(cfg *config.Config) *PromoHandler {
	return &PromoHandler{
		promoService: services.NewPromoService(cfg),
	}
}

type CreatePromoRequest struct {
	Title     string    `json:"title" binding:"required"`
	Type      string    `json:"type" binding:"required"`
	Value     float64   `json:"value" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	IsActive  *bool     `json:"is_active"`
}

type UpdatePromoRequest struct {
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Value     float64   `json:"value"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  *bool     `json:"is_active"`
}

type PromoProductsRequest struct {
	ProductIDs []uint `json:"product_ids" binding:"required,min=1"`
}

// GetPromos returns all promotions
func (h *PromoHandler) GetPromos(c *gin.Context) {
	promos, err := h.promoService.GetPromos()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get promotions", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"promos": promos})
}

// GetPromo returns a specific promotion
func (h *PromoHandler) GetPromo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	promo, err := h.promoService.GetPromo(id)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, promo)
}

// CreatePromo creates a promotion
func (h *PromoHandler) CreatePromo(c *gin.Context) {
	var req CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	promo, err := h.promoService.CreatePromo(services.PromoInput{
		Title:     req.Title,
		Type:      req.Type,
		Value:     req.Value,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	})
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(201, promo)
}

// UpdatePromo updates a promotion
func (h *PromoHandler) UpdatePromo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req UpdatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	promo, err := h.promoService.UpdatePromo(id, services.PromoInput{
		Title:     req.Title,
		Type:      req.Type,
		Value:     req.Value,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	})
	if err != nil {
		if errors.Is(err, services.ErrPromoNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, promo)
}

// DeletePromo removes a promotion
func (h *PromoHandler) DeletePromo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.promoService.DeletePromo(id); err != nil {
		if errors.Is(err, services.ErrPromoNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"message": "Promotion deleted successfully"})
}

// AttachProducts links products to a promotion
func (h *PromoHandler) AttachProducts(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req PromoProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	promo, err := h.promoService.AttachProducts(id, req.ProductIDs)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPromoNotFound), errors.Is(err, services.ErrProductNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, promo)
}

// DetachProducts unlinks products from a promotion
func (h *PromoHandler) DetachProducts(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req PromoProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	promo, err := h.promoService.DetachProducts(id, req.ProductIDs)
	if err != nil {
		if errors.Is(err, services.ErrPromoNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, promo)
}
