package entity

import "time"

// OrderStatus is the closed set of purchase order states.
//
//	pending -> approved -> shipped -> received  (terminal)
//	pending -> cancelled                        (terminal)
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusShipped,
		OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCancelled
}

// CanTransitionTo reports whether s -> next is a legal transition. Orders
// must pass through every intermediate state; received is reachable only
// from shipped (the receive workflow is the sole path there).
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusApproved || next == OrderStatusCancelled
	case OrderStatusApproved:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusReceived
	case OrderStatusReceived, OrderStatusCancelled:
		return false
	}
	return false
}

// PurchaseOrder is the procurement aggregate root. Orders are never
// physically deleted; terminal states close them out.
type PurchaseOrder struct {
	ID           string      `json:"id" gorm:"primaryKey;size:36"`
	OrderNumber  string      `json:"order_number" gorm:"size:32;uniqueIndex;not null"`
	SupplierID   string      `json:"supplier_id" gorm:"size:36;not null;index"`
	Status       OrderStatus `json:"status" gorm:"size:20;not null;default:pending"`
	TotalAmount  float64     `json:"total_amount" gorm:"type:decimal(15,2);not null;default:0"`
	OrderDate    time.Time   `json:"order_date"`
	ExpectedDate *time.Time  `json:"expected_date"`
	ReceivedDate *time.Time  `json:"received_date"`
	Notes        string      `json:"notes" gorm:"type:text"`
	CreatedBy    string      `json:"created_by" gorm:"size:36"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Supplier *Supplier           `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Items    []PurchaseOrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItem is one product line within a purchase order. Lines are
// created with the order and immutable afterwards, except ReceivedQuantity
// which is written once at receipt.
type PurchaseOrderItem struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID          string    `json:"order_id" gorm:"size:36;not null;index"`
	ProductID        string    `json:"product_id" gorm:"size:36;not null;index"`
	Quantity         int       `json:"quantity" gorm:"not null"`
	UnitCost         float64   `json:"unit_cost" gorm:"type:decimal(12,2);not null"`
	ReceivedQuantity int       `json:"received_quantity" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}
