package models

import "time"

const (
	PriceTypeOneTime   = "one_time"
	PriceTypeRecurring = "recurring"
)

// BillingPrice mirrors a provider price. ProductID is taken from the provider
// payload whether it arrives as a bare reference or an embedded object, and
// stays empty when the payload carries none; it is never invented locally.
type BillingPrice struct {
	ID              string    `gorm:"primaryKey;type:varchar(191)" json:"id"`
	ProductID       string    `gorm:"type:varchar(191);index" json:"product_id"`
	Active          bool      `gorm:"default:false;index" json:"active"`
	Currency        string    `gorm:"type:varchar(3);not null" json:"currency"`
	Description     *string   `gorm:"type:text;default:null" json:"description,omitempty"`
	Type            string    `gorm:"type:varchar(16);not null" json:"type"`
	UnitAmount      *int64    `gorm:"default:null" json:"unit_amount,omitempty"`
	Interval        *string   `gorm:"type:varchar(16);default:null" json:"interval,omitempty"`
	IntervalCount   *int64    `gorm:"default:null" json:"interval_count,omitempty"`
	TrialPeriodDays *int64    `gorm:"default:null" json:"trial_period_days,omitempty"`
	Metadata        JSON      `gorm:"type:longtext" json:"metadata"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
