package dto

import "time"

// AppointmentListDTO is a row of the barber's day view.
type AppointmentListDTO struct {
	ID         uint      `json:"id"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Status     string    `json:"status"`
	Type       string    `json:"type"`
	ClientName string    `json:"clientName"`
	Address    string    `json:"address,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}
