package service

import (
	"context"
	"testing"

	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/testutil"
)

func float64Ptr(v float64) *float64 { return &v }
func strPtr(v string) *string       { return &v }

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)

	_, err := svcs.Product.Create(ctx, "tester", &CreateProductRequest{
		SKU:  "SKU-001",
		Name: "Another widget",
	})
	if err == nil {
		t.Fatal("expected duplicate sku rejection")
	}
}

func TestUpdateProductRecordsAuditTrail(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)

	_, err := svcs.Product.Update(ctx, "tester", "prod-1", &UpdateProductRequest{
		Quantity: intPtr(4),
		Price:    float64Ptr(24.99),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var history []entity.ProductHistory
	if err := db.Where("product_id = ?", "prod-1").Find(&history).Error; err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}

	byField := make(map[string]entity.ProductHistory)
	for _, h := range history {
		byField[h.FieldName] = h
	}

	qty, ok := byField["quantity"]
	if !ok {
		t.Fatal("expected a quantity history row")
	}
	if qty.OldValue != "10" || qty.NewValue != "4" {
		t.Fatalf("quantity change recorded as %s -> %s", qty.OldValue, qty.NewValue)
	}
	if qty.ChangedBy != "tester" {
		t.Fatalf("expected change stamped with acting user, got %q", qty.ChangedBy)
	}

	price, ok := byField["price"]
	if !ok {
		t.Fatal("expected a price history row")
	}
	if price.OldValue != "19.99" || price.NewValue != "24.99" {
		t.Fatalf("price change recorded as %s -> %s", price.OldValue, price.NewValue)
	}
}

func TestUpdateProductUntrackedFieldsSkipHistory(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)

	_, err := svcs.Product.Update(ctx, "tester", "prod-1", &UpdateProductRequest{
		Name:     strPtr("Renamed widget"),
		Location: strPtr("Aisle 7"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var count int64
	db.Model(&entity.ProductHistory{}).Where("product_id = ?", "prod-1").Count(&count)
	if count != 0 {
		t.Fatalf("name and location are not tracked, got %d history rows", count)
	}
}

func TestUpdateProductRejectsNegativeQuantity(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)

	if _, err := svcs.Product.Update(ctx, "tester", "prod-1", &UpdateProductRequest{
		Quantity: intPtr(-1),
	}); err == nil {
		t.Fatal("expected negative quantity rejection")
	}
}

func TestUpdateProductLowStockNotification(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)

	if _, err := svcs.Product.Update(ctx, "tester", "prod-1", &UpdateProductRequest{
		Quantity: intPtr(3),
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var notifications []entity.Notification
	if err := db.Where("user_id = ? AND type = ?", "tester", entity.NotificationLowStock).
		Find(&notifications).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected one low stock notification, got %d", len(notifications))
	}
	if notifications[0].ReferenceID != "prod-1" {
		t.Fatalf("expected notification referencing prod-1, got %s", notifications[0].ReferenceID)
	}
}

func TestLowStockListOrderedBySeverity(t *testing.T) {
	db, svcs := setupServices(t)
	ctx := context.Background()

	// out of stock first, then by quantity/reorder ratio
	testutil.SeedProduct(t, db, "prod-a", "SKU-A", 4, 5)  // ratio 0.8
	testutil.SeedProduct(t, db, "prod-b", "SKU-B", 0, 10) // out of stock
	testutil.SeedProduct(t, db, "prod-c", "SKU-C", 1, 10) // ratio 0.1
	testutil.SeedProduct(t, db, "prod-d", "SKU-D", 50, 5) // healthy, excluded

	items, err := svcs.Product.LowStock(ctx)
	if err != nil {
		t.Fatalf("LowStock failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 low stock products, got %d", len(items))
	}
	if items[0].ID != "prod-b" {
		t.Fatalf("expected out-of-stock product first, got %s", items[0].ID)
	}
	if items[1].ID != "prod-c" || items[2].ID != "prod-a" {
		t.Fatalf("expected severity order prod-c, prod-a; got %s, %s", items[1].ID, items[2].ID)
	}

	for _, item := range items {
		if item.SuggestedReorder <= 0 {
			t.Fatalf("product %s: expected positive suggested reorder", item.ID)
		}
	}
}
