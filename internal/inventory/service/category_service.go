package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/repository"
)

type CategoryService struct {
	repo        *repository.CategoryRepository
	productRepo *repository.ProductRepository
}

func NewCategoryService(repo *repository.CategoryRepository, productRepo *repository.ProductRepository) *CategoryService {
	return &CategoryService{repo: repo, productRepo: productRepo}
}

type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

func (s *CategoryService) List(ctx context.Context) ([]entity.Category, error) {
	return s.repo.FindAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*entity.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, req *CategoryRequest) (*entity.Category, error) {
	if req.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *req.ParentID); err != nil {
			return nil, fmt.Errorf("parent category lookup failed: %w", err)
		}
	}

	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req *CategoryRequest) (*entity.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("category lookup failed: %w", err)
	}

	category.Name = req.Name
	category.Description = req.Description
	category.ParentID = req.ParentID

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete removes a category unless products still reference it.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("category lookup failed: %w", err)
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category still has %d product(s)", count)
	}

	return s.repo.Delete(ctx, id)
}
