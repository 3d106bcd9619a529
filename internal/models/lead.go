package models

import (
	"time"
)

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusClosed    = "closed"
)

// Lead records a visitor's purchase intent. The quoted price is the
// effective price at the moment the lead was created, so later promo
// changes never rewrite what the customer was told.
type Lead struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Reference    string    `json:"reference" gorm:"type:varchar(36);uniqueIndex;not null"`
	CustomerName string    `json:"customer_name" gorm:"type:varchar(255);not null"`
	Phone        string    `json:"phone" gorm:"type:varchar(32);not null"`
	ProductID    uint      `json:"product_id" gorm:"not null;index"`
	Product      *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity     int       `json:"quantity" gorm:"default:1"`
	QuotedPrice  int64     `json:"quoted_price" gorm:"not null"`
	Note         string    `json:"note,omitempty" gorm:"type:text"`
	Status       string    `json:"status" gorm:"type:varchar(20);default:'new'"` // new, contacted, closed
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
