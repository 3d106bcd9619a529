package services

import (
	"math"
	"time"
	"tokoku/internal/models"
)

// IsCurrentlyActive reports whether a promotion applies at the given
// instant: the active flag is set and now falls inside the inclusive
// [start, end] window.
func IsCurrentlyActive(promo *models.Promotion, now time.Time) bool {
	if promo == nil || !promo.IsActive {
		return false
	}
	return !now.Before(promo.StartDate) && !now.After(promo.EndDate)
}

// EffectivePrice computes the price to display or quote for a product.
// Without an applicable promotion the pre-set discounted price wins over
// the base price. Percentage promos round to the nearest whole currency
// unit (ties away from zero); both promo branches floor at zero so bad
// promo data can never quote a negative price.
func EffectivePrice(product *models.Product, promo *models.Promotion, now time.Time) int64 {
	if !IsCurrentlyActive(promo, now) {
		if product.PriceAfterDiscount != nil {
			return *product.PriceAfterDiscount
		}
		return product.Price
	}

	var discounted int64
	switch promo.Type {
	case models.PromoTypePercentage:
		discounted = int64(math.Round(float64(product.Price) * (1 - promo.Value/100)))
	case models.PromoTypeFixed:
		discounted = product.Price - int64(math.Round(promo.Value))
	default:
		if product.PriceAfterDiscount != nil {
			return *product.PriceAfterDiscount
		}
		return product.Price
	}

	if discounted < 0 {
		return 0
	}
	return discounted
}

// ResolveProductPrice fills the derived EffectivePrice field on a
// product whose promo association is already loaded.
func ResolveProductPrice(product *models.Product, now time.Time) {
	product.EffectivePrice = EffectivePrice(product, product.Promo, now)
}
