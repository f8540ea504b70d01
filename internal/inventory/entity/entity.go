package entity

import "gorm.io/gorm"

// AutoMigrate creates or updates all inventory tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Category{},
		&Supplier{},
		&Customer{},
		&Product{},
		&ProductHistory{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
		&Notification{},
	)
}
