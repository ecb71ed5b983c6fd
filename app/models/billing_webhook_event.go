package models

import "time"

// BillingWebhookEvent stores provider webhook deliveries with deduplication
// metadata. The provider redelivers at least once; the unique event id makes
// reprocessing a detectable duplicate instead of a double apply.
type BillingWebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ProviderEventID string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"provider_event_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	PayloadJSON     string     `gorm:"type:longtext;not null" json:"payload_json"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProcessedSuccessfully reports whether the event completed without error.
// Only such events are answered as duplicates on redelivery; a failed event
// must be dispatched again, redelivery is the recovery mechanism.
func (e *BillingWebhookEvent) ProcessedSuccessfully() bool {
	return e.ProcessedAt != nil && e.ProcessingError == ""
}
