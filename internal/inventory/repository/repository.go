package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the inventory repository collection.
type Repositories struct {
	Product      *ProductRepository
	Category     *CategoryRepository
	Supplier     *SupplierRepository
	Customer     *CustomerRepository
	Order        *OrderRepository
	Notification *NotificationRepository
	History      *HistoryRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:      NewProductRepository(db),
		Category:     NewCategoryRepository(db),
		Supplier:     NewSupplierRepository(db),
		Customer:     NewCustomerRepository(db),
		Order:        NewOrderRepository(db),
		Notification: NewNotificationRepository(db),
		History:      NewHistoryRepository(db),
	}
}
