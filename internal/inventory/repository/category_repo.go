package repository

import (
	"context"
	"errors"

	"github.com/quayside/stockpilot/internal/inventory/entity"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindAll lists categories ordered by name, with product count and total
// stock value computed per category.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]entity.Category, error) {
	var items []entity.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	type aggregate struct {
		CategoryID   string
		ProductCount int64
		TotalValue   float64
	}
	var aggs []aggregate
	err := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Select("category_id, COUNT(*) as product_count, COALESCE(SUM(quantity * cost), 0) as total_value").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[string]aggregate, len(aggs))
	for _, a := range aggs {
		byID[a.CategoryID] = a
	}
	for i := range items {
		if a, ok := byID[items[i].ID]; ok {
			items[i].ProductCount = a.ProductCount
			items[i].TotalValue = a.TotalValue
		}
	}
	return items, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Category{}).Error
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Category{}).Count(&count).Error
	return count, err
}
