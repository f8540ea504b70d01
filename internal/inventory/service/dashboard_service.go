package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// dashboardStatsKey caches the dashboard stats snapshot; writers to
// products or orders delete it.
const dashboardStatsKey = "dashboard:stats"

const dashboardStatsTTL = 60 * time.Second

// DashboardService aggregates the numbers shown on the dashboard landing
// page. Results are cached in redis when a client is configured; redis
// being down only costs the cache, never the response.
type DashboardService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *zap.Logger
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{db: db, rdb: rdb, logger: logger}
}

type DashboardStats struct {
	TotalProducts   int64   `json:"total_products"`
	LowStockItems   int64   `json:"low_stock_items"`
	TotalCategories int64   `json:"total_categories"`
	TotalSuppliers  int64   `json:"total_suppliers"`
	TotalValue      float64 `json:"total_value"` // sum of quantity x cost across products
	PendingOrders   int64   `json:"pending_orders"`
}

// Stats returns the dashboard snapshot, from cache when possible.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardStatsKey).Result(); err == nil {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("dashboard stats cache read failed", zap.Error(err))
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, dashboardStatsKey, payload, dashboardStatsTTL).Err(); err != nil {
				s.logger.Warn("dashboard stats cache write failed", zap.Error(err))
			}
		}
	}

	return stats, nil
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	if err := s.db.WithContext(ctx).Model(&entity.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&entity.Product{}).
		Where("quantity <= reorder_level").
		Count(&stats.LowStockItems).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&entity.Product{}).
		Select("COALESCE(SUM(quantity * cost), 0)").
		Scan(&stats.TotalValue).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&entity.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&entity.Supplier{}).Count(&stats.TotalSuppliers).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Where("status = ?", entity.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
