package models

import "time"

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID        uint  `gorm:"not null;index" json:"userId"`
	AppointmentID *uint `gorm:"index" json:"appointmentId,omitempty"`

	// PaymentIntent id for ONEOFF rows, refund id for REFUND rows.
	ExternalRef string `gorm:"size:191;uniqueIndex;not null" json:"externalRef"`

	Amount   int64  `gorm:"not null" json:"amount"`
	Currency string `gorm:"size:3;not null" json:"currency"`
	Kind     string `gorm:"size:10;not null" json:"kind"`
	Status   string `gorm:"size:20;not null;index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
