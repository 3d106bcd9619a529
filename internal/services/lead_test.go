package services

import (
	"testing"
	"time"
	"tokoku/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLead(t *testing.T) {
	cfg := setupTestDB(t)
	leadService := NewLeadService(cfg)
	productService := NewProductService(cfg)
	promoService := NewPromoService(cfg)

	settings, err := models.GetStoreSettings(models.DB)
	require.NoError(t, err)
	settings.StoreName = "Tokoku"
	settings.WhatsAppNumber = "6281234567890"
	require.NoError(t, models.SaveStoreSettings(models.DB, settings))

	product, err := productService.CreateProduct(ProductInput{Name: "Batik Shirt", Price: 100000})
	require.NoError(t, err)

	promo, err := promoService.CreatePromo(PromoInput{
		Title:     "Independence sale",
		Type:      models.PromoTypePercentage,
		Value:     20,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	_, err = promoService.AttachProducts(promo.ID, []uint{product.ID})
	require.NoError(t, err)

	t.Run("lead quotes the promo price and links to WhatsApp", func(t *testing.T) {
		lead, waLink, err := leadService.CreateLead(CreateLeadData{
			ProductID:    product.ID,
			CustomerName: "Budi",
			Phone:        "6289876543210",
			Quantity:     2,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(80000), lead.QuotedPrice)
		assert.Equal(t, models.LeadStatusNew, lead.Status)
		assert.NotEmpty(t, lead.Reference)
		assert.Contains(t, waLink, "https://wa.me/6281234567890?text=")
		assert.Contains(t, waLink, lead.Reference)
	})

	t.Run("quoted price survives promo expiry", func(t *testing.T) {
		leads, err := leadService.GetLeads("")
		require.NoError(t, err)
		require.Len(t, leads, 1)

		inactive := false
		_, err = promoService.UpdatePromo(promo.ID, PromoInput{IsActive: &inactive})
		require.NoError(t, err)

		leads, err = leadService.GetLeads("")
		require.NoError(t, err)
		assert.Equal(t, int64(80000), leads[0].QuotedPrice)
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		lead, _, err := leadService.CreateLead(CreateLeadData{
			ProductID:    product.ID,
			CustomerName: "Sari",
			Phone:        "6281111111111",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, lead.Quantity)
	})

	t.Run("inactive product rejected", func(t *testing.T) {
		off := false
		_, err := productService.UpdateProduct(product.ID, ProductInput{IsActive: &off})
		require.NoError(t, err)

		_, _, err = leadService.CreateLead(CreateLeadData{
			ProductID:    product.ID,
			CustomerName: "Tono",
			Phone:        "6282222222222",
		})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("status transitions validated", func(t *testing.T) {
		leads, err := leadService.GetLeads(models.LeadStatusNew)
		require.NoError(t, err)
		require.NotEmpty(t, leads)

		lead, err := leadService.UpdateLeadStatus(leads[0].ID, models.LeadStatusContacted)
		require.NoError(t, err)
		assert.Equal(t, models.LeadStatusContacted, lead.Status)

		_, err = leadService.UpdateLeadStatus(leads[0].ID, "archived")
		assert.ErrorIs(t, err, ErrInvalidLeadStatus)
	})
}
