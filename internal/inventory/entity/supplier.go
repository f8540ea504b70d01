package entity

import "time"

// Supplier is a vendor purchase orders are placed against.
type Supplier struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Name          string    `json:"name" gorm:"size:200;not null"`
	ContactPerson string    `json:"contact_person" gorm:"size:100"`
	Email         string    `json:"email" gorm:"size:200"`
	Phone         string    `json:"phone" gorm:"size:50"`
	Address       string    `json:"address" gorm:"size:500"`
	Rating        float64   `json:"rating" gorm:"type:decimal(3,1);default:0"`
	LeadTime      int       `json:"lead_time" gorm:"default:0"` // typical fulfillment days, informational
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	ProductCount int64 `json:"product_count" gorm:"-"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
