package service

import (
	"github.com/quayside/stockpilot/internal/inventory/repository"
	"github.com/quayside/stockpilot/internal/sse"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services is the inventory service collection.
type Services struct {
	Product      *ProductService
	Category     *CategoryService
	Supplier     *SupplierService
	Customer     *CustomerService
	Procurement  *ProcurementService
	Notification *NotificationService
	Dashboard    *DashboardService
	Report       *ReportService
}

// NewServices wires every service. rdb and hub may be nil; caching and SSE
// push are then skipped.
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, hub *sse.Hub, logger *zap.Logger) *Services {
	notification := NewNotificationService(repos.Notification, hub, logger)
	return &Services{
		Product:      NewProductService(repos.Product, repos.History, notification, rdb),
		Category:     NewCategoryService(repos.Category, repos.Product),
		Supplier:     NewSupplierService(repos.Supplier, repos.Product, repos.Order),
		Customer:     NewCustomerService(repos.Customer),
		Procurement:  NewProcurementService(repos.Order, repos.Product, repos.Supplier, notification, db, rdb),
		Notification: notification,
		Dashboard:    NewDashboardService(db, rdb, logger),
		Report:       NewReportService(db),
	}
}
