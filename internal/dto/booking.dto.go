package dto

import "time"

type BarberSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AppointmentSummary struct {
	ID      uint      `json:"id"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Status  string    `json:"status"`
	Type    string    `json:"type,omitempty"`
}

// BookingResult is returned by booking creation. Status is "created" or
// "duplicate"; Appointment is omitted for duplicates.
type BookingResult struct {
	AppointmentID uint                `json:"appointmentId"`
	Status        string              `json:"status"`
	Appointment   *AppointmentSummary `json:"appointment,omitempty"`
}

type BookingItem struct {
	ID      uint           `json:"id"`
	StartAt time.Time      `json:"startAt"`
	EndAt   time.Time      `json:"endAt"`
	Status  string         `json:"status"`
	Type    string         `json:"type"`
	Notes   string         `json:"notes,omitempty"`
	Address string         `json:"address,omitempty"`
	Barber  *BarberSummary `json:"barber,omitempty"`
}

type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type BookingList struct {
	Appointments []BookingItem `json:"appointments"`
	Pagination   Pagination    `json:"pagination"`
}

// RefundResult reports the refund sub-flow of a cancellation. Status is
// "completed", "failed" or "unavailable".
type RefundResult struct {
	RefundID string `json:"refundId,omitempty"`
	Amount   int64  `json:"amount,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

type CancelResult struct {
	Success     bool               `json:"success"`
	Appointment AppointmentSummary `json:"appointment"`
	Refund      *RefundResult      `json:"refund"`
}
