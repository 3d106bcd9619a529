package handlers

import (
	"errors"
	"strconv"
	"tokoku/internal/config"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(cfg *config.Config) *AccountHandler {
	return &AccountHandler{
		accountService: services.NewAccountService(cfg),
	}
}

type CreateAccountRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email"`
	Role     string `json:"role" binding:"required"`
}

type UpdateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// GetAccounts returns all admin accounts
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	accounts, err := h.accountService.GetAccounts()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get accounts", "details": err.Error()})
		return
	}

	c.JSON(200, gin.H{"accounts": accounts})
}

// GetAccount returns a specific account
func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	account, err := h.accountService.GetAccount(id)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, account)
}

// CreateAccount creates a new admin account
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(req.Username, req.Password, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrAccountExists) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(201, account)
}

// UpdateAccount updates an account
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	account, err := h.accountService.UpdateAccount(id, req.Username, req.Email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAccountExists):
			c.JSON(409, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, account)
}

// UpdatePassword updates an account password
func (h *AccountHandler) UpdatePassword(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := h.accountService.UpdatePassword(id, req.Password); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"message": "Password updated successfully"})
}

// ActivateAccount re-enables an account
func (h *AccountHandler) ActivateAccount(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	account, err := h.accountService.ActivateAccount(id)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, account)
}

// DeactivateAccount disables an account, protecting the last active one
func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	account, err := h.accountService.DeactivateAccount(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrLastAdminProtected):
			c.JSON(409, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, account)
}

// DeleteAccount removes an account, protecting the last active one
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.accountService.DeleteAccount(id); err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrLastAdminProtected):
			c.JSON(409, gin.H{"error": err.Error()})
		default:
			c.JSON(400, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(200, gin.H{"message": "Account deleted successfully"})
}

// parseID reads the :id route parameter, responding 400 on garbage
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return 0, err
	}
	return uint(id), nil
}
