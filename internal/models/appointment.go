package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint  `gorm:"not null;uniqueIndex:idx_appointments_client_idempotency,priority:1" json:"clientId"`
	Client   *User `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	BarberID uint  `gorm:"not null;index" json:"barberId"`
	Barber   *User `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barber,omitempty"`

	Type string `gorm:"size:10;not null" json:"type"`

	StartTime time.Time `gorm:"not null;index" json:"startAt"`
	EndTime   time.Time `gorm:"not null" json:"endAt"`
	Timezone  string    `gorm:"size:64" json:"timezone"`

	Status string `gorm:"size:20;not null;index" json:"status"`

	Address string `gorm:"type:text" json:"address,omitempty"`
	Notes   string `gorm:"type:text" json:"notes,omitempty"`
	IsFree  bool   `json:"isFree"`

	IdempotencyKey string `gorm:"size:191;not null;uniqueIndex:idx_appointments_client_idempotency,priority:2" json:"-"`

	CanceledAt  *time.Time `json:"canceledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
