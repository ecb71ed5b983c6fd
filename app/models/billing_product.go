package models

import "time"

// BillingProduct mirrors a sellable product defined at the payment provider.
// The provider id is the primary key; every upsert replaces the full row.
type BillingProduct struct {
	ID          string    `gorm:"primaryKey;type:varchar(191)" json:"id"`
	Active      bool      `gorm:"default:false;index" json:"active"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description *string   `gorm:"type:text;default:null" json:"description,omitempty"`
	Image       *string   `gorm:"type:varchar(2048);default:null" json:"image,omitempty"`
	Metadata    JSON      `gorm:"type:longtext" json:"metadata"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
