package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/quayside/stockpilot/internal/inventory/entity"
	"gorm.io/gorm"
)

// HistoryRepository stores the append-only product audit trail.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create appends an audit row. History is never updated or deleted.
func (r *HistoryRepository) Create(ctx context.Context, h *entity.ProductHistory) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(h).Error
}

// FindByProduct lists a product's audit trail, newest first.
func (r *HistoryRepository) FindByProduct(ctx context.Context, productID string, page, pageSize int) ([]entity.ProductHistory, int64, error) {
	var items []entity.ProductHistory
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.ProductHistory{}).
		Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}
