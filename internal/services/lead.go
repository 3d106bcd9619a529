package services

import (
	"errors"
	"fmt"
	"net/url"
	"time"
	"tokoku/internal/config"
	"tokoku/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrInvalidLeadStatus = errors.New("invalid lead status")
)

type LeadService struct{}

func NewLeadService(cfg *config.Config) *LeadService {
	return &LeadService{}
}

// CreateLeadData carries visitor input for a checkout lead
type CreateLeadData struct {
	ProductID    uint
	CustomerName string
	Phone        string
	Quantity     int
	Note         string
}

// CreateLead records purchase intent against an active product. The
// price is quoted through the pricing resolver at creation time and a
// WhatsApp deep link with a prefilled message is returned alongside.
func (s *LeadService) CreateLead(data CreateLeadData) (*models.Lead, string, error) {
	var product models.Product
	err := models.DB.Preload("Promo").Where("is_active = ?", true).First(&product, data.ProductID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrProductNotFound
		}
		return nil, "", err
	}

	quantity := data.Quantity
	if quantity < 1 {
		quantity = 1
	}

	quoted := EffectivePrice(&product, product.Promo, time.Now())

	lead := &models.Lead{
		Reference:    uuid.NewString(),
		CustomerName: data.CustomerName,
		Phone:        data.Phone,
		ProductID:    product.ID,
		Quantity:     quantity,
		QuotedPrice:  quoted,
		Note:         data.Note,
		Status:       models.LeadStatusNew,
	}

	if err := models.DB.Create(lead).Error; err != nil {
		return nil, "", err
	}
	lead.Product = &product

	settings, err := models.GetStoreSettings(models.DB)
	if err != nil {
		return nil, "", err
	}

	return lead, whatsAppLink(settings, lead, &product), nil
}

// whatsAppLink builds the wa.me deep link the storefront hands to the
// visitor. Empty when no WhatsApp number is configured.
func whatsAppLink(settings *models.StoreSettings, lead *models.Lead, product *models.Product) string {
	if settings.WhatsAppNumber == "" {
		return ""
	}
	message := fmt.Sprintf("Hi %s, I would like to order %dx %s (%s %d). Ref: %s",
		settings.StoreName, lead.Quantity, product.Name, settings.CurrencyCode, lead.QuotedPrice, lead.Reference)
	return fmt.Sprintf("https://wa.me/%s?text=%s", settings.WhatsAppNumber, url.QueryEscape(message))
}

// GetLeads lists leads, newest first, optionally filtered by status
func (s *LeadService) GetLeads(status string) ([]models.Lead, error) {
	query := models.DB.Preload("Product").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// GetLead returns a lead by ID
func (s *LeadService) GetLead(id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := models.DB.Preload("Product").First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// UpdateLeadStatus moves a lead through new -> contacted -> closed
func (s *LeadService) UpdateLeadStatus(id uint, status string) (*models.Lead, error) {
	switch status {
	case models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusClosed:
	default:
		return nil, ErrInvalidLeadStatus
	}

	lead, err := s.GetLead(id)
	if err != nil {
		return nil, err
	}

	lead.Status = status
	if err := models.DB.Model(lead).Update("status", status).Error; err != nil {
		return nil, err
	}
	return lead, nil
}
