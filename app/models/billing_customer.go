package models

import "time"

// BillingCustomer links a local user to the provider-issued customer id.
// Created once per user on first checkout; never deleted by the billing core.
type BillingCustomer struct {
	UserID             uint      `gorm:"primaryKey" json:"user_id"`
	ProviderCustomerID string    `gorm:"type:varchar(191);index:ux_billing_customers_provider_id,unique" json:"provider_customer_id"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
