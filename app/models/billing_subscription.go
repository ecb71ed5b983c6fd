package models

import "time"

// Subscription status values as reported by the payment provider.
const (
	SubscriptionStatusTrialing          = "trialing"
	SubscriptionStatusActive            = "active"
	SubscriptionStatusIncomplete        = "incomplete"
	SubscriptionStatusIncompleteExpired = "incomplete_expired"
	SubscriptionStatusPastDue           = "past_due"
	SubscriptionStatusCanceled          = "canceled"
	SubscriptionStatusUnpaid            = "unpaid"
)

// BillingSubscription mirrors a provider subscription. The provider is the
// source of truth; every sync replaces the full row, the local copy is a
// cache and never patched field by field.
type BillingSubscription struct {
	ID                 string     `gorm:"primaryKey;type:varchar(191)" json:"id"`
	UserID             uint       `gorm:"not null;index" json:"user_id"`
	PriceID            string     `gorm:"type:varchar(191);index" json:"price_id"`
	Status             string     `gorm:"type:varchar(32);not null;index" json:"status"`
	Quantity           int64      `gorm:"not null;default:1" json:"quantity"`
	CancelAtPeriodEnd  bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CancelAt           *time.Time `gorm:"type:timestamp;default:null" json:"cancel_at,omitempty"`
	CanceledAt         *time.Time `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	CurrentPeriodStart *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	Created            *time.Time `gorm:"type:timestamp;default:null" json:"created,omitempty"`
	EndedAt            *time.Time `gorm:"type:timestamp;default:null" json:"ended_at,omitempty"`
	TrialStart         *time.Time `gorm:"type:timestamp;default:null" json:"trial_start,omitempty"`
	TrialEnd           *time.Time `gorm:"type:timestamp;default:null" json:"trial_end,omitempty"`
	Metadata           JSON       `gorm:"type:longtext" json:"metadata"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsEntitling reports whether the subscription grants paid entitlements.
func (s *BillingSubscription) IsEntitling() bool {
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusTrialing:
		return true
	default:
		return false
	}
}
