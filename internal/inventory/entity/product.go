package entity

import (
	"time"

	"gorm.io/gorm"
)

// Product is a stock-keeping unit tracked by the inventory.
type Product struct {
	ID           string         `json:"id" gorm:"primaryKey;size:36"`
	SKU          string         `json:"sku" gorm:"size:64;uniqueIndex;not null"`
	Name         string         `json:"name" gorm:"size:200;not null"`
	Description  string         `json:"description" gorm:"type:text"`
	CategoryID   *string        `json:"category_id" gorm:"size:36;index"`
	SupplierID   *string        `json:"supplier_id" gorm:"size:36;index"`
	Quantity     int            `json:"quantity" gorm:"not null;default:0"`
	ReorderLevel int            `json:"reorder_level" gorm:"not null;default:0"`
	Price        float64        `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	Cost         float64        `json:"cost" gorm:"type:decimal(12,2);not null;default:0"`
	Location     string         `json:"location" gorm:"size:100"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Product) TableName() string {
	return "products"
}

// ProductHistory is an append-only audit row recorded whenever a tracked
// product field changes value. Rows are never updated or deleted.
type ProductHistory struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ProductID string    `json:"product_id" gorm:"size:36;not null;index"`
	FieldName string    `json:"field_name" gorm:"size:50;not null"`
	OldValue  string    `json:"old_value" gorm:"size:200"`
	NewValue  string    `json:"new_value" gorm:"size:200"`
	ChangedBy string    `json:"changed_by" gorm:"size:36"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductHistory) TableName() string {
	return "product_history"
}
