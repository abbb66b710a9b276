package models

import "time"

type Subscription struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"not null;index" json:"userId"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	PlanID string `gorm:"size:32;not null;index" json:"planId"`
	Plan   *Plan  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"plan,omitempty"`

	Status    string    `gorm:"size:20;not null;index" json:"status"`
	StartDate time.Time `json:"startDate"`
	RenewsAt  time.Time `json:"renewsAt"`

	ExternalRef string `gorm:"size:191;uniqueIndex;not null" json:"externalRef"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
