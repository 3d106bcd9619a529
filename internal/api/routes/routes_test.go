package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
	"tokoku/internal/api/middleware"
	"tokoku/internal/config"
	"tokoku/internal/models"
	"tokoku/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupTestDB initializes a test database
func setupTestDB(t *testing.T) *config.Config {
	tmpDir := os.TempDir()
	testDBPath := fmt.Sprintf("%s/tokoku_routes_test_%d.db", tmpDir, time.Now().UnixNano())

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: testDBPath,
			},
		},
		JWT: config.JWTConfig{
			Secret:    "test-secret-key-for-testing-only",
			ExpiresIn: "24h",
			Issuer:    "tokoku-test",
		},
		Security: config.SecurityConfig{
			BcryptCost: bcrypt.MinCost,
		},
	}

	err := models.InitDB(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if models.DB != nil {
			sqlDB, err := models.DB.DB()
			if err == nil {
				sqlDB.Close()
			}
			models.DB = nil
		}
		os.Remove(testDBPath)
	})

	return cfg
}

// createTestAccount creates an admin account and returns it
func createTestAccount(t *testing.T, authService *services.AuthService, username, password, role string) *models.AdminAccount {
	hash, err := authService.HashPassword(password)
	require.NoError(t, err)

	account := &models.AdminAccount{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, models.DB.Create(account).Error)
	return account
}

// createTestToken issues a session token for testing
func createTestToken(t *testing.T, authService *services.AuthService, account *models.AdminAccount) string {
	token, _, err := authService.IssueToken(account)
	require.NoError(t, err)
	return token
}

// setupTestRouter creates a test router with routes
func setupTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, cfg)
	return r
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRoutes(t *testing.T) {
	cfg := setupTestDB(t)
	authService := services.NewAuthService(cfg)
	account := createTestAccount(t, authService, "admin", "admin-pass", models.RoleSuperAdmin)
	router := setupTestRouter(cfg)

	t.Run("POST /api/auth/login - Success sets session cookie", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", "", map[string]interface{}{
			"username": "admin",
			"password": "admin-pass",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Contains(t, response, "token")

		cookies := w.Result().Cookies()
		var found *http.Cookie
		for _, c := range cookies {
			if c.Name == middleware.SessionCookieName {
				found = c
			}
		}
		require.NotNil(t, found)
		assert.True(t, found.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, found.SameSite)
	})

	t.Run("POST /api/auth/login - Wrong password", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", "", map[string]interface{}{
			"username": "admin",
			"password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("POST /api/auth/login - Missing password", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", "", map[string]interface{}{
			"username": "admin",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GET /api/admin/auth/me - Bearer token", func(t *testing.T) {
		token := createTestToken(t, authService, account)

		w := doJSON(router, "GET", "/api/admin/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response models.AdminAccount
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "admin", response.Username)
	})

	t.Run("GET /api/admin/auth/me - Session cookie", func(t *testing.T) {
		token := createTestToken(t, authService, account)

		req, _ := http.NewRequest("GET", "/api/admin/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GET /api/admin/auth/me - Unauthorized (no token)", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/admin/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("POST /api/admin/auth/logout - Clears cookie", func(t *testing.T) {
		token := createTestToken(t, authService, account)

		w := doJSON(router, "POST", "/api/admin/auth/logout", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var cleared *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == middleware.SessionCookieName {
				cleared = c
			}
		}
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
	})
}

func TestAccountRoutes(t *testing.T) {
	cfg := setupTestDB(t)
	authService := services.NewAuthService(cfg)
	superAdmin := createTestAccount(t, authService, "owner", "owner-pass", models.RoleSuperAdmin)
	staff := createTestAccount(t, authService, "staff", "staff-pass", models.RoleAdmin)
	router := setupTestRouter(cfg)

	t.Run("GET /api/admin/accounts - Success with super admin", func(t *testing.T) {
		token := createTestToken(t, authService, superAdmin)

		w := doJSON(router, "GET", "/api/admin/accounts", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Contains(t, response, "accounts")
	})

	t.Run("GET /api/admin/accounts - Forbidden for plain admin", func(t *testing.T) {
		token := createTestToken(t, authService, staff)

		w := doJSON(router, "GET", "/api/admin/accounts", token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST /api/admin/accounts - Create", func(t *testing.T) {
		token := createTestToken(t, authService, superAdmin)

		w := doJSON(router, "POST", "/api/admin/accounts", token, map[string]interface{}{
			"username": "newstaff",
			"password": "password123",
			"role":     models.RoleAdmin,
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("DELETE last active account - Conflict", func(t *testing.T) {
		token := createTestToken(t, authService, superAdmin)

		// Deactivate everyone but the super admin
		for _, username := range []string{"staff", "newstaff"} {
			var acct models.AdminAccount
			require.NoError(t, models.DB.Where("username = ?", username).First(&acct).Error)
			w := doJSON(router, "POST", fmt.Sprintf("/api/admin/accounts/%d/deactivate", acct.ID), token, nil)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := doJSON(router, "DELETE", fmt.Sprintf("/api/admin/accounts/%d", superAdmin.ID), token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = doJSON(router, "POST", fmt.Sprintf("/api/admin/accounts/%d/deactivate", superAdmin.ID), token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestStorefrontRoutes(t *testing.T) {
	cfg := setupTestDB(t)
	authService := services.NewAuthService(cfg)
	admin := createTestAccount(t, authService, "owner", "owner-pass", models.RoleSuperAdmin)
	router := setupTestRouter(cfg)
	token := createTestToken(t, authService, admin)

	settings, err := models.GetStoreSettings(models.DB)
	require.NoError(t, err)
	settings.StoreName = "Tokoku"
	settings.WhatsAppNumber = "6281234567890"
	require.NoError(t, models.SaveStoreSettings(models.DB, settings))

	t.Run("GET /api/health", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin creates catalog, storefront lists it with effective price", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/admin/categories", token, map[string]interface{}{
			"name": "Coffee",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		var category models.Category
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &category))
		assert.Equal(t, "coffee", category.Slug)

		w = doJSON(router, "POST", "/api/admin/products", token, map[string]interface{}{
			"name":        "Kopi Gayo",
			"price":       100000,
			"category_id": category.ID,
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		var product models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))

		w = doJSON(router, "POST", "/api/admin/promos", token, map[string]interface{}{
			"title":      "Opening sale",
			"type":       "percentage",
			"value":      20,
			"start_date": time.Now().Add(-time.Hour).Format(time.RFC3339),
			"end_date":   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		var promo models.Promotion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &promo))

		w = doJSON(router, "POST", fmt.Sprintf("/api/admin/promos/%d/attach", promo.ID), token, map[string]interface{}{
			"product_ids": []uint{product.ID},
		})
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, "GET", "/api/catalog/products?category=coffee", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var listing struct {
			Products []models.Product `json:"products"`
			Total    int64            `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
		require.Len(t, listing.Products, 1)
		assert.Equal(t, int64(80000), listing.Products[0].EffectivePrice)

		w = doJSON(router, "GET", "/api/catalog/products/kopi-gayo", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var got models.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(80000), got.EffectivePrice)
	})

	t.Run("POST /api/checkout/leads - Quotes and links to WhatsApp", func(t *testing.T) {
		var product models.Product
		require.NoError(t, models.DB.Where("slug = ?", "kopi-gayo").First(&product).Error)

		w := doJSON(router, "POST", "/api/checkout/leads", "", map[string]interface{}{
			"product_id":    product.ID,
			"customer_name": "Budi",
			"phone":         "6289876543210",
			"quantity":      2,
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var response struct {
			Lead         models.Lead `json:"lead"`
			WhatsAppLink string      `json:"whatsapp_link"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(80000), response.Lead.QuotedPrice)
		assert.Contains(t, response.WhatsAppLink, "wa.me/6281234567890")
	})

	t.Run("GET /api/admin/leads - Requires auth", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/admin/leads", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doJSON(router, "GET", "/api/admin/leads", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GET /api/catalog/products/:slug - Hidden when inactive", func(t *testing.T) {
		var product models.Product
		require.NoError(t, models.DB.Where("slug = ?", "kopi-gayo").First(&product).Error)

		w := doJSON(router, "PUT", fmt.Sprintf("/api/admin/products/%d", product.ID), token, map[string]interface{}{
			"is_active": false,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, "GET", "/api/catalog/products/kopi-gayo", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
