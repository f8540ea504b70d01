package entity

import "time"

// Category groups products; categories may nest one level via ParentID.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	ParentID    *string   `json:"parent_id" gorm:"size:36"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Computed on read, not stored.
	ProductCount int64   `json:"product_count" gorm:"-"`
	TotalValue   float64 `json:"total_value" gorm:"-"`
}

func (Category) TableName() string {
	return "categories"
}
