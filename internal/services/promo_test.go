package services

import (
	"testing"
	"time"
	"tokoku/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoValidation(t *testing.T) {
	cfg := setupTestDB(t)
	promoService := NewPromoService(cfg)

	start := time.Now()
	end := start.Add(7 * 24 * time.Hour)

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := promoService.CreatePromo(PromoInput{Title: "x", Type: "bogo", Value: 10, StartDate: start, EndDate: end})
		assert.Error(t, err)
	})

	t.Run("negative value rejected", func(t *testing.T) {
		_, err := promoService.CreatePromo(PromoInput{Title: "x", Type: models.PromoTypeFixed, Value: -1, StartDate: start, EndDate: end})
		assert.Error(t, err)
	})

	t.Run("percentage above 100 rejected", func(t *testing.T) {
		_, err := promoService.CreatePromo(PromoInput{Title: "x", Type: models.PromoTypePercentage, Value: 120, StartDate: start, EndDate: end})
		assert.Error(t, err)
	})

	t.Run("end date must be after start date", func(t *testing.T) {
		_, err := promoService.CreatePromo(PromoInput{Title: "x", Type: models.PromoTypeFixed, Value: 1000, StartDate: end, EndDate: start})
		assert.Error(t, err)

		_, err = promoService.CreatePromo(PromoInput{Title: "x", Type: models.PromoTypeFixed, Value: 1000, StartDate: start, EndDate: start})
		assert.Error(t, err)
	})

	t.Run("valid promo created active by default", func(t *testing.T) {
		promo, err := promoService.CreatePromo(PromoInput{Title: "Launch sale", Type: models.PromoTypePercentage, Value: 20, StartDate: start, EndDate: end})
		require.NoError(t, err)
		assert.True(t, promo.IsActive)
	})
}

func TestPromoProductAttachment(t *testing.T) {
	cfg := setupTestDB(t)
	promoService := NewPromoService(cfg)
	productService := NewProductService(cfg)

	start := time.Now().Add(-time.Hour)
	end := start.Add(48 * time.Hour)

	promo, err := promoService.CreatePromo(PromoInput{Title: "Weekend", Type: models.PromoTypeFixed, Value: 5000, StartDate: start, EndDate: end})
	require.NoError(t, err)

	product, err := productService.CreateProduct(ProductInput{Name: "Kopi Gayo", Price: 50000})
	require.NoError(t, err)

	t.Run("attach applies promo pricing to product reads", func(t *testing.T) {
		_, err := promoService.AttachProducts(promo.ID, []uint{product.ID})
		require.NoError(t, err)

		got, err := productService.GetProduct(product.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Promo)
		assert.Equal(t, int64(45000), got.EffectivePrice)
	})

	t.Run("re-attaching an already linked product succeeds", func(t *testing.T) {
		_, err := promoService.AttachProducts(promo.ID, []uint{product.ID})
		require.NoError(t, err)

		got, err := productService.GetProduct(product.ID)
		require.NoError(t, err)
		require.NotNil(t, got.PromoID)
		assert.Equal(t, promo.ID, *got.PromoID)
	})

	t.Run("duplicate product ids in one request succeed", func(t *testing.T) {
		_, err := promoService.AttachProducts(promo.ID, []uint{product.ID, product.ID})
		require.NoError(t, err)
	})

	t.Run("attach with unknown product fails", func(t *testing.T) {
		_, err := promoService.AttachProducts(promo.ID, []uint{99999})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("detach restores base price", func(t *testing.T) {
		_, err := promoService.DetachProducts(promo.ID, []uint{product.ID})
		require.NoError(t, err)

		got, err := productService.GetProduct(product.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Promo)
		assert.Equal(t, int64(50000), got.EffectivePrice)
	})

	t.Run("deleting the promo detaches its products", func(t *testing.T) {
		_, err := promoService.AttachProducts(promo.ID, []uint{product.ID})
		require.NoError(t, err)

		require.NoError(t, promoService.DeletePromo(promo.ID))

		got, err := productService.GetProduct(product.ID)
		require.NoError(t, err)
		assert.Nil(t, got.PromoID)
	})
}
