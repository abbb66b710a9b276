package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Subject of the external identity provider.
	ExternalID string `gorm:"size:191;uniqueIndex;not null" json:"-"`

	Name  string `gorm:"size:100" json:"name"`
	Email string `gorm:"size:191;index" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`
	Role  string `gorm:"size:20;not null;index" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
