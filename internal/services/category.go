package services

import (
	"errors"
	"tokoku/internal/config"
	"tokoku/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryInUse    = errors.New("category still has products attached")
)

type CategoryService struct{}

func NewCategoryService(cfg *config.Config) *CategoryService {
	return &CategoryService{}
}

// GetCategories returns all categories
func (s *CategoryService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := models.DB.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory returns a category by ID
func (s *CategoryService) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	if err := models.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory creates a category, deriving the slug from the name
// when none is given
func (s *CategoryService) CreateCategory(name, slug, description string) (*models.Category, error) {
	if slug == "" {
		slug = Slugify(name)
	}

	var existing models.Category
	if err := models.DB.Where("name = ? OR slug = ?", name, slug).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: description,
	}
	if err := models.DB.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates a category
func (s *CategoryService) UpdateCategory(id uint, name, slug, description string) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		category.Name = name
	}
	if slug != "" {
		category.Slug = slug
	} else if name != "" {
		category.Slug = Slugify(name)
	}
	if description != "" {
		category.Description = description
	}

	var existing models.Category
	if err := models.DB.Where("(name = ? OR slug = ?) AND id != ?", category.Name, category.Slug, id).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	if err := models.DB.Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category that has no products attached
func (s *CategoryService) DeleteCategory(id uint) error {
	category, err := s.GetCategory(id)
	if err != nil {
		return err
	}

	var productCount int64
	if err := models.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return ErrCategoryInUse
	}

	return models.DB.Delete(category).Error
}
