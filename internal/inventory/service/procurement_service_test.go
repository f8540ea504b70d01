package service

import (
	"context"
	"sync"
	"testing"

	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/repository"
	"github.com/quayside/stockpilot/internal/inventory/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupServices(t *testing.T) (*gorm.DB, *Services) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return db, NewServices(repos, db, nil, nil, zap.NewNop())
}

func intPtr(v int) *int { return &v }

func TestCreateOrderTotal(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)
	testutil.SeedProduct(t, db, "prod-2", "SKU-002", 20, 5)

	order, err := svcs.Procurement.CreateOrder(ctx, "tester", &CreateOrderRequest{
		SupplierID: "sup-1",
		Items: []CreateOrderItem{
			{ProductID: "prod-1", Quantity: 3, UnitCost: 2.50},
			{ProductID: "prod-2", Quantity: 10, UnitCost: 1.25},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if order.Status != entity.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if want := 3*2.50 + 10*1.25; order.TotalAmount != want {
		t.Fatalf("expected total %.2f, got %.2f", want, order.TotalAmount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.OrderNumber == "" {
		t.Fatal("expected generated order number")
	}
}

func TestCreateOrderOrderNumberSequence(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)

	req := &CreateOrderRequest{
		SupplierID: "sup-1",
		Items:      []CreateOrderItem{{ProductID: "prod-1", Quantity: 1, UnitCost: 1}},
	}

	first, err := svcs.Procurement.CreateOrder(ctx, "tester", req)
	if err != nil {
		t.Fatalf("first CreateOrder failed: %v", err)
	}
	second, err := svcs.Procurement.CreateOrder(ctx, "tester", req)
	if err != nil {
		t.Fatalf("second CreateOrder failed: %v", err)
	}
	if first.OrderNumber == second.OrderNumber {
		t.Fatalf("order numbers must be unique, both got %s", first.OrderNumber)
	}
}

func TestCreateOrderRejectsDuplicateProduct(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)

	_, err := svcs.Procurement.CreateOrder(ctx, "tester", &CreateOrderRequest{
		SupplierID: "sup-1",
		Items: []CreateOrderItem{
			{ProductID: "prod-1", Quantity: 1, UnitCost: 1},
			{ProductID: "prod-1", Quantity: 2, UnitCost: 1},
		},
	})
	if err == nil {
		t.Fatal("expected duplicate product rejection")
	}
}

func TestCreateOrderUnknownSupplier(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)

	_, err := svcs.Procurement.CreateOrder(ctx, "tester", &CreateOrderRequest{
		SupplierID: "missing",
		Items:      []CreateOrderItem{{ProductID: "prod-1", Quantity: 1, UnitCost: 1}},
	})
	if err == nil {
		t.Fatal("expected supplier lookup failure")
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    entity.OrderStatus
		to      entity.OrderStatus
		wantErr bool
	}{
		{"pending to approved", entity.OrderStatusPending, entity.OrderStatusApproved, false},
		{"pending to cancelled", entity.OrderStatusPending, entity.OrderStatusCancelled, false},
		{"pending to shipped skips approval", entity.OrderStatusPending, entity.OrderStatusShipped, true},
		{"approved to shipped", entity.OrderStatusApproved, entity.OrderStatusShipped, false},
		{"approved to pending rollback", entity.OrderStatusApproved, entity.OrderStatusPending, true},
		{"approved to cancelled", entity.OrderStatusApproved, entity.OrderStatusCancelled, true},
		{"shipped to cancelled", entity.OrderStatusShipped, entity.OrderStatusCancelled, true},
		{"received is terminal", entity.OrderStatusReceived, entity.OrderStatusPending, true},
		{"cancelled is terminal", entity.OrderStatusCancelled, entity.OrderStatusApproved, true},
		{"unknown status", entity.OrderStatusPending, entity.OrderStatus("archived"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, svcs := setupServices(t)
			ctx := context.Background()

			testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
			order := &entity.PurchaseOrder{
				ID:          "ord-1",
				OrderNumber: "PO-2026-0001",
				SupplierID:  "sup-1",
				Status:      tt.from,
			}
			if err := db.Create(order).Error; err != nil {
				t.Fatalf("failed to seed order: %v", err)
			}

			_, err := svcs.Procurement.UpdateStatus(ctx, "tester", "ord-1", tt.to)
			if tt.wantErr && err == nil {
				t.Fatalf("expected %s -> %s to be rejected", tt.from, tt.to)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected %s -> %s to succeed, got: %v", tt.from, tt.to, err)
			}
		})
	}
}

func TestUpdateStatusRejectsReceived(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
	order := &entity.PurchaseOrder{
		ID:          "ord-1",
		OrderNumber: "PO-2026-0001",
		SupplierID:  "sup-1",
		Status:      entity.OrderStatusShipped,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}

	// shipped -> received is a legal transition, but only through Receive
	// so stock gets reconciled.
	if _, err := svcs.Procurement.UpdateStatus(ctx, "tester", "ord-1", entity.OrderStatusReceived); err == nil {
		t.Fatal("expected received to be rejected outside the receive workflow")
	}
}

func seedShippedOrder(t *testing.T, db *gorm.DB) *entity.PurchaseOrder {
	t.Helper()
	testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)
	testutil.SeedProduct(t, db, "prod-2", "SKU-002", 0, 3)

	order := &entity.PurchaseOrder{
		ID:          "ord-1",
		OrderNumber: "PO-2026-0001",
		SupplierID:  "sup-1",
		Status:      entity.OrderStatusShipped,
		TotalAmount: 65,
		Items: []entity.PurchaseOrderItem{
			{ID: "item-1", ProductID: "prod-1", Quantity: 20, UnitCost: 2.5},
			{ID: "item-2", ProductID: "prod-2", Quantity: 15, UnitCost: 1},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to seed shipped order: %v", err)
	}
	return order
}

func TestReceiveUpdatesStock(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	seedShippedOrder(t, db)

	order, err := svcs.Procurement.Receive(ctx, "tester", "ord-1", nil)
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}

	if order.Status != entity.OrderStatusReceived {
		t.Fatalf("expected received status, got %s", order.Status)
	}
	if order.ReceivedDate == nil {
		t.Fatal("expected received date to be set")
	}

	var p1, p2 entity.Product
	if err := db.First(&p1, "id = ?", "prod-1").Error; err != nil {
		t.Fatalf("failed to load product: %v", err)
	}
	if err := db.First(&p2, "id = ?", "prod-2").Error; err != nil {
		t.Fatalf("failed to load product: %v", err)
	}
	if p1.Quantity != 30 {
		t.Fatalf("expected prod-1 quantity 30, got %d", p1.Quantity)
	}
	if p2.Quantity != 15 {
		t.Fatalf("expected prod-2 quantity 15, got %d", p2.Quantity)
	}

	var items []entity.PurchaseOrderItem
	if err := db.Where("order_id = ?", "ord-1").Order("id").Find(&items).Error; err != nil {
		t.Fatalf("failed to load items: %v", err)
	}
	for _, item := range items {
		if item.ReceivedQuantity != item.Quantity {
			t.Fatalf("item %s: expected received %d, got %d", item.ID, item.Quantity, item.ReceivedQuantity)
		}
	}
}

func TestReceiveClampsOverrides(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	seedShippedOrder(t, db)

	_, err := svcs.Procurement.Receive(ctx, "tester", "ord-1", []ReceiveItem{
		{ItemID: "item-1", ReceivedQuantity: intPtr(999)},
		{ItemID: "item-2", ReceivedQuantity: intPtr(-5)},
	})
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}

	var item1, item2 entity.PurchaseOrderItem
	if err := db.First(&item1, "id = ?", "item-1").Error; err != nil {
		t.Fatalf("failed to load item: %v", err)
	}
	if err := db.First(&item2, "id = ?", "item-2").Error; err != nil {
		t.Fatalf("failed to load item: %v", err)
	}
	if item1.ReceivedQuantity != 20 {
		t.Fatalf("expected over-delivery clamped to 20, got %d", item1.ReceivedQuantity)
	}
	if item2.ReceivedQuantity != 0 {
		t.Fatalf("expected negative override clamped to 0, got %d", item2.ReceivedQuantity)
	}

	var p1, p2 entity.Product
	db.First(&p1, "id = ?", "prod-1")
	db.First(&p2, "id = ?", "prod-2")
	if p1.Quantity != 30 {
		t.Fatalf("expected prod-1 quantity 30, got %d", p1.Quantity)
	}
	if p2.Quantity != 0 {
		t.Fatalf("expected prod-2 quantity unchanged at 0, got %d", p2.Quantity)
	}
}

func TestReceiveRejectsForeignItem(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	seedShippedOrder(t, db)

	_, err := svcs.Procurement.Receive(ctx, "tester", "ord-1", []ReceiveItem{
		{ItemID: "not-an-item", ReceivedQuantity: intPtr(1)},
	})
	if err == nil {
		t.Fatal("expected unknown item rejection")
	}

	var p1 entity.Product
	db.First(&p1, "id = ?", "prod-1")
	if p1.Quantity != 10 {
		t.Fatalf("stock must be untouched on rejection, got %d", p1.Quantity)
	}
}

func TestReceiveRequiresShippedStatus(t *testing.T) {
	for _, status := range []entity.OrderStatus{
		entity.OrderStatusPending,
		entity.OrderStatusApproved,
		entity.OrderStatusReceived,
		entity.OrderStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			db, svcs := setupServices(t)
			ctx := context.Background()

			testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
			testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)
			order := &entity.PurchaseOrder{
				ID:          "ord-1",
				OrderNumber: "PO-2026-0001",
				SupplierID:  "sup-1",
				Status:      status,
				Items: []entity.PurchaseOrderItem{
					{ID: "item-1", ProductID: "prod-1", Quantity: 5, UnitCost: 1},
				},
			}
			if err := db.Create(order).Error; err != nil {
				t.Fatalf("failed to seed order: %v", err)
			}

			if _, err := svcs.Procurement.Receive(ctx, "tester", "ord-1", nil); err == nil {
				t.Fatalf("expected receive from %s to be rejected", status)
			}

			var p entity.Product
			db.First(&p, "id = ?", "prod-1")
			if p.Quantity != 10 {
				t.Fatalf("stock must be untouched, got %d", p.Quantity)
			}
		})
	}
}

func TestReceiveConcurrentAppliesStockOnce(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	seedShippedOrder(t, db)

	// Pin the pool to one connection so both receives hit the same store.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svcs.Procurement.Receive(ctx, "tester", "ord-1", nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one receive to succeed, got %d (errors: %v)", succeeded, errs)
	}

	var p1, p2 entity.Product
	if err := db.First(&p1, "id = ?", "prod-1").Error; err != nil {
		t.Fatalf("failed to load product: %v", err)
	}
	if err := db.First(&p2, "id = ?", "prod-2").Error; err != nil {
		t.Fatalf("failed to load product: %v", err)
	}
	if p1.Quantity != 30 {
		t.Fatalf("expected prod-1 quantity 30 after a single receipt, got %d", p1.Quantity)
	}
	if p2.Quantity != 15 {
		t.Fatalf("expected prod-2 quantity 15 after a single receipt, got %d", p2.Quantity)
	}
}

func TestUpdateStatusLeavesItemsUntouched(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)
	order := &entity.PurchaseOrder{
		ID:          "ord-1",
		OrderNumber: "PO-2026-0001",
		SupplierID:  "sup-1",
		Status:      entity.OrderStatusPending,
		Items: []entity.PurchaseOrderItem{
			{ID: "item-1", ProductID: "prod-1", Quantity: 4, UnitCost: 2.5},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}

	updated, err := svcs.Procurement.UpdateStatus(ctx, "tester", "ord-1", entity.OrderStatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != entity.OrderStatusApproved {
		t.Fatalf("expected approved status, got %s", updated.Status)
	}

	var stored entity.PurchaseOrder
	if err := db.First(&stored, "id = ?", "ord-1").Error; err != nil {
		t.Fatalf("failed to load order: %v", err)
	}
	if stored.Status != entity.OrderStatusApproved {
		t.Fatalf("expected stored status approved, got %s", stored.Status)
	}
	if stored.ReceivedDate != nil {
		t.Fatalf("received date must stay unset, got %v", stored.ReceivedDate)
	}

	// The status change writes only the order header.
	var count int64
	if err := db.Model(&entity.PurchaseOrderItem{}).Where("order_id = ?", "ord-1").Count(&count).Error; err != nil {
		t.Fatalf("failed to count items: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 item row, got %d", count)
	}
	var item entity.PurchaseOrderItem
	if err := db.First(&item, "id = ?", "item-1").Error; err != nil {
		t.Fatalf("failed to load item: %v", err)
	}
	if item.Quantity != 4 || item.UnitCost != 2.5 || item.ReceivedQuantity != 0 {
		t.Fatalf("item row changed: quantity=%d unit_cost=%v received=%d",
			item.Quantity, item.UnitCost, item.ReceivedQuantity)
	}
}

func TestReceiveEmitsNotification(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	seedShippedOrder(t, db)

	if _, err := svcs.Procurement.Receive(ctx, "tester", "ord-1", nil); err != nil {
		t.Fatalf("Receive failed: %v", err)
	}

	var notifications []entity.Notification
	if err := db.Where("user_id = ?", "tester").Find(&notifications).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	if len(notifications) == 0 {
		t.Fatal("expected an order_received notification")
	}
	found := false
	for _, n := range notifications {
		if n.Type == entity.NotificationOrderReceived && n.ReferenceID == "ord-1" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected notification of type order_received referencing the order")
	}
}
