package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingsRowID = 1

// StoreSettings is a single-row table holding store-wide configuration,
// including the legacy admin password hash used by the username-less
// login path. Always access it through GetStoreSettings/SaveStoreSettings
// so the single-row invariant holds.
type StoreSettings struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	StoreName          string    `json:"store_name" gorm:"type:varchar(255)"`
	WhatsAppNumber     string    `json:"whatsapp_number" gorm:"type:varchar(32)"`
	CurrencyCode       string    `json:"currency_code" gorm:"type:varchar(8);default:'IDR'"`
	LegacyPasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// GetStoreSettings returns the settings row, creating an empty one on
// first access.
func GetStoreSettings(tx *gorm.DB) (*StoreSettings, error) {
	var settings StoreSettings
	err := tx.Where(StoreSettings{ID: settingsRowID}).FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveStoreSettings upserts the singleton row.
func SaveStoreSettings(tx *gorm.DB, settings *StoreSettings) error {
	settings.ID = settingsRowID
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(settings).Error
}
