package services

import (
	"tokoku/internal/config"
	"tokoku/internal/models"
)

type SettingsService struct {
	authService *AuthService
}

func NewSettingsService(cfg *config.Config) *SettingsService {
	return &SettingsService{
		authService: NewAuthService(cfg),
	}
}

// GetSettings returns the store settings row
func (s *SettingsService) GetSettings() (*models.StoreSettings, error) {
	return models.GetStoreSettings(models.DB)
}

// UpdateSettings updates store name, WhatsApp number and currency
func (s *SettingsService) UpdateSettings(storeName, whatsAppNumber, currencyCode string) (*models.StoreSettings, error) {
	settings, err := models.GetStoreSettings(models.DB)
	if err != nil {
		return nil, err
	}

	if storeName != "" {
		settings.StoreName = storeName
	}
	if whatsAppNumber != "" {
		settings.WhatsAppNumber = whatsAppNumber
	}
	if currencyCode != "" {
		settings.CurrencyCode = currencyCode
	}

	if err := models.SaveStoreSettings(models.DB, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// RotateLegacyPassword replaces the username-less login secret. This is
// the only write path for that hash after bootstrap.
func (s *SettingsService) RotateLegacyPassword(newPassword string) error {
	settings, err := models.GetStoreSettings(models.DB)
	if err != nil {
		return err
	}

	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return err
	}

	settings.LegacyPasswordHash = hash
	return models.SaveStoreSettings(models.DB, settings)
}
