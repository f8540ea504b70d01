package entity

import "time"

// Customer status
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

type Customer struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Email       string    `json:"email" gorm:"size:200"`
	Phone       string    `json:"phone" gorm:"size:50"`
	Address     string    `json:"address" gorm:"size:500"`
	Status      string    `json:"status" gorm:"size:20;not null;default:active"`
	TotalOrders int       `json:"total_orders" gorm:"default:0"`
	TotalSpent  float64   `json:"total_spent" gorm:"type:decimal(15,2);default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
