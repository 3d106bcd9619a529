package services

import (
	"errors"
	"time"
	"tokoku/internal/config"
	"tokoku/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPromoNotFound = errors.New("promotion not found")
	ErrInvalidPromo  = errors.New("invalid promotion")
)

type PromoService struct{}

func NewPromoService(cfg *config.Config) *PromoService {
	return &PromoService{}
}

// PromoInput carries the writable fields of a promotion
type PromoInput struct {
	Title     string
	Type      string
	Value     float64
	StartDate time.Time
	EndDate   time.Time
	IsActive  *bool
}

// validate enforces promo invariants at write time. Percentage values
// are bounded to [0, 100] so pricing can never go negative from a
// misconfigured promo.
func (s *PromoService) validate(input PromoInput) error {
	if input.Type != models.PromoTypePercentage && input.Type != models.PromoTypeFixed {
		return errors.New("promo type must be percentage or fixed")
	}
	if input.Value < 0 {
		return errors.New("promo value must not be negative")
	}
	if input.Type == models.PromoTypePercentage && input.Value > 100 {
		return errors.New("percentage promo value must not exceed 100")
	}
	if !input.EndDate.After(input.StartDate) {
		return errors.New("promo end date must be after start date")
	}
	return nil
}

// GetPromos returns all promotions with their attached products
func (s *PromoService) GetPromos() ([]models.Promotion, error) {
	var promos []models.Promotion
	if err := models.DB.Preload("Products").Order("start_date desc").Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// GetPromo returns a promotion by ID
func (s *PromoService) GetPromo(id uint) (*models.Promotion, error) {
	var promo models.Promotion
	if err := models.DB.Preload("Products").First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return &promo, nil
}

// CreatePromo creates a promotion
func (s *PromoService) CreatePromo(input PromoInput) (*models.Promotion, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	promo := &models.Promotion{
		Title:     input.Title,
		Type:      input.Type,
		Value:     input.Value,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		IsActive:  true,
	}
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}

	if err := models.DB.Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// UpdatePromo updates a promotion
func (s *PromoService) UpdatePromo(id uint, input PromoInput) (*models.Promotion, error) {
	promo, err := s.GetPromo(id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		promo.Title = input.Title
	}
	if input.Type != "" {
		promo.Type = input.Type
	}
	if input.Value != 0 {
		promo.Value = input.Value
	}
	if !input.StartDate.IsZero() {
		promo.StartDate = input.StartDate
	}
	if !input.EndDate.IsZero() {
		promo.EndDate = input.EndDate
	}
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}

	if err := s.validate(PromoInput{
		Title:     promo.Title,
		Type:      promo.Type,
		Value:     promo.Value,
		StartDate: promo.StartDate,
		EndDate:   promo.EndDate,
	}); err != nil {
		return nil, err
	}

	if err := models.DB.Save(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// DeletePromo removes a promotion and detaches its products
func (s *PromoService) DeletePromo(id uint) error {
	promo, err := s.GetPromo(id)
	if err != nil {
		return err
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("promo_id = ?", id).Update("promo_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(promo).Error
	})
}

// AttachProducts links products to a promotion. Existence is checked
// with a count up front: MySQL reports changed rows, not matched rows,
// so re-attaching an already-linked product would make an
// affected-rows check lie.
func (s *PromoService) AttachProducts(id uint, productIDs []uint) (*models.Promotion, error) {
	if _, err := s.GetPromo(id); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(productIDs))
	seen := make(map[uint]bool, len(productIDs))
	for _, pid := range productIDs {
		if !seen[pid] {
			seen[pid] = true
			ids = append(ids, pid)
		}
	}

	var found int64
	if err := models.DB.Model(&models.Product{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return nil, err
	}
	if found != int64(len(ids)) {
		return nil, ErrProductNotFound
	}

	if err := models.DB.Model(&models.Product{}).Where("id IN ?", ids).Update("promo_id", id).Error; err != nil {
		return nil, err
	}
	return s.GetPromo(id)
}

// DetachProducts unlinks products from a promotion
func (s *PromoService) DetachProducts(id uint, productIDs []uint) (*models.Promotion, error) {
	if _, err := s.GetPromo(id); err != nil {
		return nil, err
	}

	err := models.DB.Model(&models.Product{}).
		Where("id IN ? AND promo_id = ?", productIDs, id).
		Update("promo_id", nil).Error
	if err != nil {
		return nil, err
	}
	return s.GetPromo(id)
}
