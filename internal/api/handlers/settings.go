package handlers

import (
	"tokoku/internal/config"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{
		settingsService: services.NewSettingsService(cfg),
	}
}

type UpdateSettingsRequest struct {
	StoreName      string `json:"store_name"`
	WhatsAppNumber string `json:"whatsapp_number"`
	CurrencyCode   string `json:"currency_code"`
}

type RotateLegacyPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// GetSettings returns the store settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get settings", "details": err.Error()})
		return
	}

	c.JSON(200, settings)
}

// UpdateSettings updates the store settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	settings, err := h.settingsService.UpdateSettings(req.StoreName, req.WhatsAppNumber, req.CurrencyCode)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to update settings", "details": err.Error()})
		return
	}

	c.JSON(200, settings)
}

// RotateLegacyPassword replaces the username-less login secret
func (h *SettingsHandler) RotateLegacyPassword(c *gin.Context) {
	var req RotateLegacyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := h.settingsService.RotateLegacyPassword(req.Password); err != nil {
		c.JSON(500, gin.H{"error": "Failed to rotate legacy password", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"message": "Legacy password rotated successfully"})
}
