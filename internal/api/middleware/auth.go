package middleware

import (
	"errors"
	"strings"
	"tokoku/internal/models"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the HTTP-only cookie carrying the admin session
// token. API clients may send the same token as a Bearer header instead.
const SessionCookieName = "admin_session"

func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)

		claims, err := authService.VerifyToken(raw)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingToken):
				c.JSON(401, gin.H{"error": "Authentication required"})
			case errors.Is(err, services.ErrNotAdmin):
				c.JSON(403, gin.H{"error": "Admin access required"})
			default:
				c.JSON(401, gin.H{"error": "Invalid or expired token"})
			}
			c.Abort()
			return
		}

		account, err := authService.AccountFromClaims(claims)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("account", account)
		c.Set("account_id", account.ID)
		c.Set("claims", claims)

		c.Next()
	}
}

// tokenFromRequest prefers the Authorization header, falling back to
// the session cookie set at login.
func tokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie
}

func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, exists := c.Get("account")
		if !exists {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		accountRole := account.(*models.AdminAccount).Role
		hasRole := false
		for _, role := range roles {
			if accountRole == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.JSON(403, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
