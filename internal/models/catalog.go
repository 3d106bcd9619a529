package models

import (
	"time"
)

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	Name               string     `json:"name" gorm:"type:varchar(255);not null"`
	Slug               string     `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description        string     `json:"description" gorm:"type:text"`
	Price              int64      `json:"price" gorm:"not null"`
	PriceAfterDiscount *int64     `json:"price_after_discount,omitempty"`
	Stock              int        `json:"stock" gorm:"default:0"`
	ImageURL           string     `json:"image_url,omitempty" gorm:"type:varchar(500)"`
	IsActive           bool       `json:"is_active" gorm:"default:true"`
	CategoryID         *uint      `json:"category_id,omitempty" gorm:"index"`
	Category           *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	PromoID            *uint      `json:"promo_id,omitempty" gorm:"index"`
	Promo              *Promotion `json:"promo,omitempty" gorm:"foreignKey:PromoID"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Derived at read time, never stored
	EffectivePrice int64 `json:"effective_price" gorm:"-"`
}
