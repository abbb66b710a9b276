package models

import "time"

// Availability is a barber's weekly working window. Times are HH:MM in the
// barber's timezone.
type Availability struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"not null;uniqueIndex:idx_availability_barber_weekday,priority:1" json:"barberId"`

	Weekday int `gorm:"not null;uniqueIndex:idx_availability_barber_weekday,priority:2" json:"weekday"`

	StartTime  string `gorm:"size:5;not null" json:"startTime"`
	EndTime    string `gorm:"size:5;not null" json:"endTime"`
	BreakStart string `gorm:"size:5" json:"breakStart,omitempty"`
	BreakEnd   string `gorm:"size:5" json:"breakEnd,omitempty"`
	Timezone   string `gorm:"size:64" json:"timezone"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
