package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/repository"
	"github.com/quayside/stockpilot/internal/inventory/service"
	"github.com/quayside/stockpilot/internal/inventory/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOrderRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := service.NewServices(repos, db, nil, nil, zap.NewNop())
	handlers := NewHandlers(svcs, nil, zap.NewNop())

	r := testutil.SetupRouter()
	api := testutil.AuthGroup(r, "/api/v1")
	handlers.RegisterRoutes(api)
	return db, r
}

func TestOrderLifecycleHTTP(t *testing.T) {
	db, r := setupOrderRouter(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
	testutil.SeedProduct(t, db, "prod-1", "SKU-001", 10, 5)

	// create
	w := testutil.DoRequest(r, "POST", "/api/v1/purchase-orders", map[string]interface{}{
		"supplier_id": "sup-1",
		"items": []map[string]interface{}{
			{"product_id": "prod-1", "quantity": 8, "unit_cost": 2.5},
		},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	orderID := data["id"].(string)
	if data["status"] != "pending" {
		t.Fatalf("expected pending order, got %v", data["status"])
	}
	if data["total_amount"].(float64) != 20 {
		t.Fatalf("expected total 20, got %v", data["total_amount"])
	}

	// approve then ship
	for _, status := range []string{"approved", "shipped"} {
		w = testutil.DoRequest(r, "PUT", fmt.Sprintf("/api/v1/purchase-orders/%s/status", orderID),
			map[string]string{"status": status}, token)
		if w.Code != http.StatusOK {
			t.Fatalf("status %s: expected 200, got %d: %s", status, w.Code, w.Body.String())
		}
	}

	// receive
	w = testutil.DoRequest(r, "POST", fmt.Sprintf("/api/v1/purchase-orders/%s/receive", orderID),
		map[string]interface{}{"items": []interface{}{}}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("receive: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var product entity.Product
	if err := db.First(&product, "id = ?", "prod-1").Error; err != nil {
		t.Fatalf("failed to load product: %v", err)
	}
	if product.Quantity != 18 {
		t.Fatalf("expected stock 18 after receive, got %d", product.Quantity)
	}

	// terminal: no further transitions
	w = testutil.DoRequest(r, "PUT", fmt.Sprintf("/api/v1/purchase-orders/%s/status", orderID),
		map[string]string{"status": "cancelled"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on transition out of received, got %d", w.Code)
	}
}

func TestOrderCreateValidationHTTP(t *testing.T) {
	db, r := setupOrderRouter(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")

	// empty items
	w := testutil.DoRequest(r, "POST", "/api/v1/purchase-orders", map[string]interface{}{
		"supplier_id": "sup-1",
		"items":       []interface{}{},
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty items, got %d", w.Code)
	}

	// unknown product
	w = testutil.DoRequest(r, "POST", "/api/v1/purchase-orders", map[string]interface{}{
		"supplier_id": "sup-1",
		"items": []map[string]interface{}{
			{"product_id": "missing", "quantity": 1, "unit_cost": 1},
		},
	}, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOrderIllegalTransitionHTTP(t *testing.T) {
	db, r := setupOrderRouter(t)
	token := testutil.DefaultTestToken()

	testutil.SeedSupplier(t, db, "sup-1", "Acme Parts")
	order := &entity.PurchaseOrder{
		ID:          "ord-1",
		OrderNumber: "PO-2026-0001",
		SupplierID:  "sup-1",
		Status:      entity.OrderStatusPending,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}

	w := testutil.DoRequest(r, "PUT", "/api/v1/purchase-orders/ord-1/status",
		map[string]string{"status": "shipped"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for pending -> shipped, got %d", w.Code)
	}
}

func TestOrderEndpointsRequireAuth(t *testing.T) {
	_, r := setupOrderRouter(t)

	w := testutil.DoRequest(r, "GET", "/api/v1/purchase-orders", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
