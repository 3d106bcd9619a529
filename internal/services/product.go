package services

import (
	"errors"
	"time"
	"tokoku/internal/config"
	"tokoku/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
	ErrInvalidDiscount = errors.New("discounted price must be lower than the base price")
)

type ProductService struct{}

func NewProductService(cfg *config.Config) *ProductService {
	return &ProductService{}
}

// ProductFilter narrows product listings
type ProductFilter struct {
	CategorySlug string
	Search       string
	ActiveOnly   bool
	Page         int
	PerPage      int
}

// ProductInput carries the writable fields of a product
type ProductInput struct {
	Name               string
	Slug               string
	Description        string
	Price              int64
	PriceAfterDiscount *int64
	Stock              *int
	ImageURL           string
	IsActive           *bool
	CategoryID         *uint
	PromoID            *uint
}

// GetProducts lists products with the derived effective price filled in
func (s *ProductService) GetProducts(filter ProductFilter) ([]models.Product, int64, error) {
	query := models.DB.Model(&models.Product{}).
		Preload("Category").
		Preload("Promo")

	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PerPage > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PerPage).Limit(filter.PerPage)
	}

	var products []models.Product
	if err := query.Order("products.created_at desc").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	now := time.Now()
	for i := range products {
		ResolveProductPrice(&products[i], now)
	}

	return products, total, nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	err := models.DB.Preload("Category").Preload("Promo").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	ResolveProductPrice(&product, time.Now())
	return &product, nil
}

// GetProductBySlug returns a product by its public slug
func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := models.DB.Preload("Category").Preload("Promo").Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	ResolveProductPrice(&product, time.Now())
	return &product, nil
}

// CreateProduct creates a product
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	if input.Price <= 0 {
		return nil, errors.New("price must be positive")
	}
	if input.PriceAfterDiscount != nil && *input.PriceAfterDiscount >= input.Price {
		return nil, ErrInvalidDiscount
	}
	if input.Slug == "" {
		input.Slug = Slugify(input.Name)
	}

	var existing models.Product
	if err := models.DB.Where("slug = ?", input.Slug).First(&existing).Error; err == nil {
		return nil, ErrProductExists
	}

	if err := s.checkRefs(input.CategoryID, input.PromoID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:               input.Name,
		Slug:               input.Slug,
		Description:        input.Description,
		Price:              input.Price,
		PriceAfterDiscount: input.PriceAfterDiscount,
		ImageURL:           input.ImageURL,
		IsActive:           true,
		CategoryID:         input.CategoryID,
		PromoID:            input.PromoID,
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := models.DB.Create(product).Error; err != nil {
		return nil, err
	}
	return s.GetProduct(product.ID)
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	var product models.Product
	if err := models.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Slug != "" {
		var existing models.Product
		if err := models.DB.Where("slug = ? AND id != ?", input.Slug, id).First(&existing).Error; err == nil {
			return nil, ErrProductExists
		}
		product.Slug = input.Slug
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.PriceAfterDiscount != nil {
		if *input.PriceAfterDiscount >= product.Price {
			return nil, ErrInvalidDiscount
		}
		product.PriceAfterDiscount = input.PriceAfterDiscount
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.CategoryID != nil || input.PromoID != nil {
		if err := s.checkRefs(input.CategoryID, input.PromoID); err != nil {
			return nil, err
		}
		if input.CategoryID != nil {
			product.CategoryID = input.CategoryID
		}
		if input.PromoID != nil {
			product.PromoID = input.PromoID
		}
	}

	if err := models.DB.Save(&product).Error; err != nil {
		return nil, err
	}
	return s.GetProduct(product.ID)
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(id uint) error {
	var product models.Product
	if err := models.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return models.DB.Delete(&product).Error
}

func (s *ProductService) checkRefs(categoryID, promoID *uint) error {
	if categoryID != nil && *categoryID != 0 {
		var category models.Category
		if err := models.DB.First(&category, *categoryID).Error; err != nil {
			return ErrCategoryNotFound
		}
	}
	if promoID != nil && *promoID != 0 {
		var promo models.Promotion
		if err := models.DB.First(&promo, *promoID).Error; err != nil {
			return ErrPromoNotFound
		}
	}
	return nil
}
