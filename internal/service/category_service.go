package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/policy"
	"github.com/Chawketodeh/eventy-events-platform/internal/repository"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	validator    *utils.Validator
}

func NewCategoryService(categoryRepo *repository.CategoryRepository, validator *utils.Validator) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		validator:    validator,
	}
}

func requireAdmin(actor policy.Actor) error {
	if !actor.Authenticated() {
		return apperror.Unauthorized("authentication required")
	}
	if !actor.IsAdmin {
		return apperror.Forbidden("admin access required")
	}
	return nil
}

func (s *CategoryService) validate(req *models.CategoryRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, actor policy.Actor, req models.CategoryRequest) (*models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	category := &models.Category{Name: req.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, actor policy.Actor, id string, req models.CategoryRequest) (*models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete removes the category only. Events keep their category id and read
// back without a category.
func (s *CategoryService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}
