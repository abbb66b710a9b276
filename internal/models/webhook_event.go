package models

import "time"

// WebhookEvent records every delivery received from the payment provider so
// redeliveries of an already processed event can be skipped.
type WebhookEvent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Provider   string `gorm:"size:32;not null;uniqueIndex:idx_webhook_events_provider_event,priority:1" json:"provider"`
	ExternalID string `gorm:"size:191;not null;uniqueIndex:idx_webhook_events_provider_event,priority:2" json:"externalId"`
	Type       string `gorm:"size:100;not null;index" json:"type"`

	Deliveries      int        `gorm:"not null" json:"deliveries"`
	ProcessedAt     *time.Time `json:"processedAt"`
	ProcessingError string     `gorm:"type:text" json:"processingError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
