package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, notFound(err, "category", id)
	}
	return &category, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	return updateExisting(r.db.WithContext(ctx), category, "category", category.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("category", id)
	}
	return nil
}

// FindByName resolves a category by case-insensitive exact name, falling
// back to the first category (by name) whose name contains the input.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	db := r.db.WithContext(ctx)

	var category models.Category
	err := db.Where("LOWER(name) = ?", strings.ToLower(name)).Order("name ASC").First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Where("LOWER(name) LIKE ?"+likeEscape, containsPattern(name)).Order("name ASC").First(&category).Error
	if err != nil {
		return nil, notFound(err, "category", name)
	}
	return &category, nil
}
