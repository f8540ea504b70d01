package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ProcurementService owns the purchase order lifecycle: creation, status
// transitions, and the receive workflow that reconciles shipped quantities
// into product stock.
type ProcurementService struct {
	orderRepo    *repository.OrderRepository
	productRepo  *repository.ProductRepository
	supplierRepo *repository.SupplierRepository
	notifier     *NotificationService
	db           *gorm.DB
	rdb          *redis.Client
}

func NewProcurementService(
	orderRepo *repository.OrderRepository,
	productRepo *repository.ProductRepository,
	supplierRepo *repository.SupplierRepository,
	notifier *NotificationService,
	db *gorm.DB,
	rdb *redis.Client,
) *ProcurementService {
	return &ProcurementService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		notifier:     notifier,
		db:           db,
		rdb:          rdb,
	}
}

type CreateOrderRequest struct {
	SupplierID   string            `json:"supplier_id" binding:"required"`
	ExpectedDate string            `json:"expected_date"` // YYYY-MM-DD
	Notes        string            `json:"notes"`
	Items        []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

type CreateOrderItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gte=1"`
	UnitCost  float64 `json:"unit_cost" binding:"gte=0"`
}

// CreateOrder creates a pending purchase order with its line items. The
// header and items are written in one transaction. The total is the exact
// sum of quantity x unit cost over all items.
func (s *ProcurementService) CreateOrder(ctx context.Context, userID string, req *CreateOrderRequest) (*entity.PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("purchase order requires at least one item")
	}

	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier lookup failed: %w", err)
	}

	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("item quantity must be at least 1")
		}
		if item.UnitCost < 0 {
			return nil, fmt.Errorf("item unit cost cannot be negative")
		}
		if seen[item.ProductID] {
			return nil, fmt.Errorf("duplicate product %s in order items", item.ProductID)
		}
		seen[item.ProductID] = true
		if _, err := s.productRepo.FindByID(ctx, item.ProductID); err != nil {
			return nil, fmt.Errorf("product %s lookup failed: %w", item.ProductID, err)
		}
	}

	orderNumber, err := s.orderRepo.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	order := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		OrderNumber: orderNumber,
		SupplierID:  req.SupplierID,
		Status:      entity.OrderStatusPending,
		OrderDate:   time.Now(),
		Notes:       req.Notes,
		CreatedBy:   userID,
	}

	if req.ExpectedDate != "" {
		t, err := time.Parse("2006-01-02", req.ExpectedDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expected date %q: %w", req.ExpectedDate, err)
		}
		order.ExpectedDate = &t
	}

	var total float64
	for _, item := range req.Items {
		total += float64(item.Quantity) * item.UnitCost
		order.Items = append(order.Items, entity.PurchaseOrderItem{
			ID:        uuid.New().String(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}
	order.TotalAmount = total

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}

	s.notifier.Emit(ctx, userID, entity.NotificationOrderCreated,
		"Purchase order created",
		fmt.Sprintf("Order %s for %s created with %d item(s), total %.2f",
			order.OrderNumber, supplier.Name, len(order.Items), order.TotalAmount),
		order.ID, "order")
	s.invalidateStats(ctx)

	return order, nil
}

// ListOrders lists purchase orders with supplier/status/search filters.
func (s *ProcurementService) ListOrders(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.orderRepo.FindAll(ctx, page, pageSize, filters)
}

// GetOrder loads one order with its items and supplier.
func (s *ProcurementService) GetOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// UpdateStatus moves an order along the lifecycle. Only legal successor
// states are accepted; received is rejected here because stock has to be
// reconciled through Receive.
func (s *ProcurementService) UpdateStatus(ctx context.Context, userID, id string, status entity.OrderStatus) (*entity.PurchaseOrder, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	if status == entity.OrderStatusReceived {
		return nil, fmt.Errorf("orders are marked received through the receive workflow")
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order lookup failed: %w", err)
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("illegal status transition %s -> %s", order.Status, status)
	}

	if err := s.orderRepo.SetStatus(ctx, order.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status

	ntype, title := statusNotification(status)
	s.notifier.Emit(ctx, userID, ntype, title,
		fmt.Sprintf("Order %s is now %s", order.OrderNumber, status),
		order.ID, "order")
	s.invalidateStats(ctx)

	return order, nil
}

type ReceiveItem struct {
	ItemID           string `json:"item_id" binding:"required"`
	ReceivedQuantity *int   `json:"received_quantity"` // defaults to the ordered quantity
}

// Receive reconciles a shipped order into stock. For every line item the
// received quantity (clamped to [0, ordered]) is recorded and the product's
// stock is incremented atomically; the whole operation runs in a single
// transaction. The status flip is conditioned on the row still being
// shipped, so an order is received exactly once even when two receives
// overlap.
func (s *ProcurementService) Receive(ctx context.Context, userID, orderID string, received []ReceiveItem) (*entity.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order lookup failed: %w", err)
	}

	if order.Status != entity.OrderStatusShipped {
		return nil, fmt.Errorf("order %s cannot be received from status %s", order.OrderNumber, order.Status)
	}

	overrides := make(map[string]int, len(received))
	for _, ri := range received {
		if ri.ReceivedQuantity == nil {
			continue
		}
		overrides[ri.ItemID] = *ri.ReceivedQuantity
	}
	for itemID := range overrides {
		found := false
		for i := range order.Items {
			if order.Items[i].ID == itemID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("item %s does not belong to order %s", itemID, order.OrderNumber)
		}
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the order first: the flip only succeeds while the row is
		// still shipped, so two overlapping receives cannot both apply
		// stock; the loser rolls back here.
		claim := tx.Model(&entity.PurchaseOrder{}).
			Where("id = ? AND status = ?", order.ID, entity.OrderStatusShipped).
			Updates(map[string]interface{}{
				"status":        entity.OrderStatusReceived,
				"received_date": now,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return fmt.Errorf("order %s is no longer %s", order.OrderNumber, entity.OrderStatusShipped)
		}

		for i := range order.Items {
			item := &order.Items[i]

			qty := item.Quantity
			if override, ok := overrides[item.ID]; ok {
				qty = clamp(override, 0, item.Quantity)
			}
			item.ReceivedQuantity = qty

			if err := s.orderRepo.SetItemReceived(ctx, tx, item.ID, qty); err != nil {
				return err
			}

			if qty > 0 {
				if err := s.productRepo.AddQuantity(ctx, tx, item.ProductID, qty); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive order: %w", err)
	}

	order.Status = entity.OrderStatusReceived
	order.ReceivedDate = &now

	s.notifier.Emit(ctx, userID, entity.NotificationOrderReceived,
		"Purchase order received",
		fmt.Sprintf("Order %s received, stock updated for %d item(s)",
			order.OrderNumber, len(order.Items)),
		order.ID, "order")
	s.invalidateStats(ctx)

	return order, nil
}

func (s *ProcurementService) invalidateStats(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, dashboardStatsKey)
	}
}

func statusNotification(status entity.OrderStatus) (ntype, title string) {
	switch status {
	case entity.OrderStatusApproved:
		return entity.NotificationOrderApproved, "Purchase order approved"
	case entity.OrderStatusShipped:
		return entity.NotificationOrderShipped, "Purchase order shipped"
	case entity.OrderStatusCancelled:
		return entity.NotificationOrderCancelled, "Purchase order cancelled"
	case entity.OrderStatusReceived:
		return entity.NotificationOrderReceived, "Purchase order received"
	default:
		return entity.NotificationSystem, "Purchase order updated"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
