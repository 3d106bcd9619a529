package models

import (
	"time"
)

const (
	PromoTypePercentage = "percentage"
	PromoTypeFixed      = "fixed"
)

type Promotion struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Type      string    `json:"type" gorm:"type:varchar(20);not null"` // percentage, fixed
	Value     float64   `json:"value" gorm:"not null"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	Products  []Product `json:"products,omitempty" gorm:"foreignKey:PromoID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
