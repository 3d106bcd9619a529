package handlers

import (
	"errors"
	"net/http"
	"time"
	"tokoku/internal/api/middleware"
	"tokoku/internal/config"
	"tokoku/internal/models"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Username is optional: password-only requests take the legacy login
// path against the store-wide secret.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
	Account   *models.AdminAccount `json:"account"`
}

// Login handles admin login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Missing credentials", "details": err.Error()})
		return
	}

	account, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			c.JSON(400, gin.H{"error": "Missing credentials"})
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountNotFound):
			c.JSON(401, gin.H{"error": "Invalid credentials"})
		default:
			c.JSON(500, gin.H{"error": "Login failed"})
		}
		return
	}

	token, expiresAt, err := h.authService.IssueToken(account)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to generate token"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, token, int(time.Until(expiresAt).Seconds()), "/", "", false, true)

	c.JSON(200, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account,
	})
}

// Logout clears the session cookie. Tokens are stateless, so a token
// captured before logout stays valid until its natural expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(200, gin.H{"message": "Logged out successfully"})
}

// GetMe returns the authenticated account
func (h *AuthHandler) GetMe(c *gin.Context) {
	account, exists := c.Get("account")
	if !exists {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(200, account.(*models.AdminAccount))
}
