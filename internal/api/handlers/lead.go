package handlers

import (
	"errors"
	"tokoku/internal/config"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadService *services.LeadService
}

func NewLeadHandler(cfg *config.Config) *LeadHandler {
	return &LeadHandler{
		leadService: services.NewLeadService(cfg),
	}
}

type CreateLeadRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	CustomerName string `json:"customer_name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Quantity     int    `json:"quantity"`
	Note         string `json:"note"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateLead records purchase intent and returns the WhatsApp deep link
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	lead, waLink, err := h.leadService.CreateLead(services.CreateLeadData{
		ProductID:    req.ProductID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Quantity:     req.Quantity,
		Note:         req.Note,
	})
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to create lead", "details": err.Error()})
		return
	}

	c.JSON(201, gin.H{"lead": lead, "whatsapp_link": waLink})
}

// GetLeads returns leads for the admin inbox
func (h *LeadHandler) GetLeads(c *gin.Context) {
	leads, err := h.leadService.GetLeads(c.Query("status"))
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get leads", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"leads": leads})
}

// GetLead returns a specific lead
func (h *LeadHandler) GetLead(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	lead, err := h.leadService.GetLead(id)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, lead)
}

// UpdateLeadStatus moves a lead through its workflow states
func (h *LeadHandler) UpdateLeadStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	lead, err := h.leadService.UpdateLeadStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLeadNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidLeadStatus):
			c.JSON(400, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, lead)
}
