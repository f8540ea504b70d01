package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/repository"
	"github.com/quayside/stockpilot/internal/inventory/stock"
	"github.com/redis/go-redis/v9"
)

// ProductService manages the product catalog, the audit trail for tracked
// field changes, and low-stock alerting.
type ProductService struct {
	repo        *repository.ProductRepository
	historyRepo *repository.HistoryRepository
	notifier    *NotificationService
	rdb         *redis.Client
}

func NewProductService(repo *repository.ProductRepository, historyRepo *repository.HistoryRepository, notifier *NotificationService, rdb *redis.Client) *ProductService {
	return &ProductService{repo: repo, historyRepo: historyRepo, notifier: notifier, rdb: rdb}
}

type CreateProductRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	CategoryID   *string `json:"category_id"`
	SupplierID   *string `json:"supplier_id"`
	Quantity     int     `json:"quantity" binding:"gte=0"`
	ReorderLevel int     `json:"reorder_level" binding:"gte=0"`
	Price        float64 `json:"price" binding:"gte=0"`
	Cost         float64 `json:"cost" binding:"gte=0"`
	Location     string  `json:"location"`
}

type UpdateProductRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	CategoryID   *string  `json:"category_id"`
	SupplierID   *string  `json:"supplier_id"`
	Quantity     *int     `json:"quantity"`
	ReorderLevel *int     `json:"reorder_level"`
	Price        *float64 `json:"price"`
	Cost         *float64 `json:"cost"`
	Location     *string  `json:"location"`
}

// LowStockProduct is a product augmented with its stock status and the
// suggested reorder quantity for the alerts surface.
type LowStockProduct struct {
	entity.Product
	StockStatus      stock.Status `json:"stock_status"`
	SuggestedReorder int          `json:"suggested_reorder"`
}

func (s *ProductService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Product, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create inserts a product after checking SKU uniqueness.
func (s *ProductService) Create(ctx context.Context, userID string, req *CreateProductRequest) (*entity.Product, error) {
	if _, err := s.repo.FindBySKU(ctx, req.SKU); err == nil {
		return nil, fmt.Errorf("sku %s already exists", req.SKU)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("sku lookup failed: %w", err)
	}

	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		Price:        req.Price,
		Cost:         req.Cost,
		Location:     req.Location,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateStats(ctx)
	return product, nil
}

// Update applies partial changes to a product. Every change to a tracked
// field (quantity, price, cost, reorder_level, supplier_id, category_id)
// is appended to the product's audit trail, stamped with the acting user.
// A product left at or below its reorder level raises a low-stock alert.
func (s *ProductService) Update(ctx context.Context, userID, id string, req *UpdateProductRequest) (*entity.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}

	var changes []entity.ProductHistory
	track := func(field, oldValue, newValue string) {
		changes = append(changes, entity.ProductHistory{
			ProductID: id,
			FieldName: field,
			OldValue:  oldValue,
			NewValue:  newValue,
			ChangedBy: userID,
		})
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Location != nil {
		product.Location = *req.Location
	}
	if req.Quantity != nil && *req.Quantity != product.Quantity {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("quantity cannot be negative")
		}
		track("quantity", strconv.Itoa(product.Quantity), strconv.Itoa(*req.Quantity))
		product.Quantity = *req.Quantity
	}
	if req.ReorderLevel != nil && *req.ReorderLevel != product.ReorderLevel {
		if *req.ReorderLevel < 0 {
			return nil, fmt.Errorf("reorder level cannot be negative")
		}
		track("reorder_level", strconv.Itoa(product.ReorderLevel), strconv.Itoa(*req.ReorderLevel))
		product.ReorderLevel = *req.ReorderLevel
	}
	if req.Price != nil && *req.Price != product.Price {
		track("price", formatFloat(product.Price), formatFloat(*req.Price))
		product.Price = *req.Price
	}
	if req.Cost != nil && *req.Cost != product.Cost {
		track("cost", formatFloat(product.Cost), formatFloat(*req.Cost))
		product.Cost = *req.Cost
	}
	if req.SupplierID != nil && !strPtrEqual(req.SupplierID, product.SupplierID) {
		track("supplier_id", strPtrValue(product.SupplierID), *req.SupplierID)
		product.SupplierID = req.SupplierID
	}
	if req.CategoryID != nil && !strPtrEqual(req.CategoryID, product.CategoryID) {
		track("category_id", strPtrValue(product.CategoryID), *req.CategoryID)
		product.CategoryID = req.CategoryID
	}

	// Detach joined rows so Save only touches the products table.
	product.Category = nil
	product.Supplier = nil

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	for i := range changes {
		if err := s.historyRepo.Create(ctx, &changes[i]); err != nil {
			return nil, fmt.Errorf("failed to record product history: %w", err)
		}
	}

	if status := stock.Evaluate(product.Quantity, product.ReorderLevel); status != stock.StatusInStock {
		s.notifier.Emit(ctx, userID, entity.NotificationLowStock,
			"Low stock alert",
			fmt.Sprintf("%s (%s) is down to %d, reorder level %d, suggested reorder %d",
				product.Name, product.SKU, product.Quantity, product.ReorderLevel,
				stock.SuggestedReorder(product.Quantity, product.ReorderLevel)),
			product.ID, "product")
	}

	s.invalidateStats(ctx)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("product lookup failed: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.invalidateStats(ctx)
	return nil
}

// LowStock lists products at or below their reorder level, most critical
// first, with suggested reorder quantities.
func (s *ProductService) LowStock(ctx context.Context) ([]LowStockProduct, error) {
	products, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	stock.SortBySeverity(products)

	result := make([]LowStockProduct, 0, len(products))
	for _, p := range products {
		result = append(result, LowStockProduct{
			Product:          p,
			StockStatus:      stock.Evaluate(p.Quantity, p.ReorderLevel),
			SuggestedReorder: stock.SuggestedReorder(p.Quantity, p.ReorderLevel),
		})
	}
	return result, nil
}

// History returns a product's audit trail, newest first.
func (s *ProductService) History(ctx context.Context, productID string, page, pageSize int) ([]entity.ProductHistory, int64, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return nil, 0, fmt.Errorf("product lookup failed: %w", err)
	}
	return s.historyRepo.FindByProduct(ctx, productID, page, pageSize)
}

func (s *ProductService) invalidateStats(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, dashboardStatsKey)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
