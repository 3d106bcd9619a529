package services

import (
	"fmt"
	"os"
	"testing"
	"time"
	"tokoku/internal/config"
	"tokoku/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupTestDB initializes a test database
func setupTestDB(t *testing.T) *config.Config {
	tmpDir := os.TempDir()
	testDBPath := fmt.Sprintf("%s/tokoku_test_%d.db", tmpDir, time.Now().UnixNano())

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

// createTestAccount inserts an admin account directly
func createTestAccount(t *testing.T, cfg *config.Config, username, password, role string, active bool) *models.AdminAccount {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BcryptCost)
	require.NoError(t, err)

	account := &models.AdminAccount{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, models.DB.Create(account).Error)
	return account
}

func int64Ptr(v int64) *int64 {
	return &v
}
