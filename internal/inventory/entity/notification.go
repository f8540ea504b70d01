package entity

import "time"

// Notification types
const (
	NotificationLowStock       = "low_stock"
	NotificationOrderCreated   = "order_created"
	NotificationOrderApproved  = "order_approved"
	NotificationOrderShipped   = "order_shipped"
	NotificationOrderReceived  = "order_received"
	NotificationOrderCancelled = "order_cancelled"
	NotificationSystem         = "system"
)

// Notification is a per-user event record. Only the Read flag ever changes
// after creation.
type Notification struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	UserID        string    `json:"user_id" gorm:"size:36;not null;index"`
	Type          string    `json:"type" gorm:"size:30;not null"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	Message       string    `json:"message" gorm:"type:text"`
	ReferenceID   string    `json:"reference_id" gorm:"size:36"`
	ReferenceType string    `json:"reference_type" gorm:"size:30"` // "order" or "product"
	Read          bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
