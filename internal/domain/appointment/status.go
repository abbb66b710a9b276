package appointment

import (
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
	StatusCanceled  Status = "CANCELED"
)

type Type string

const (
	TypeShop Type = "SHOP"
	TypeHome Type = "HOME"
)

// ActiveStatuses are the statuses that hold a barber's slot.
var ActiveStatuses = []string{string(StatusBooked), string(StatusConfirmed)}

func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusConfirmed, StatusCompleted, StatusNoShow, StatusCanceled:
		return true
	}
	return false
}

func (s Status) Active() bool {
	return s == StatusBooked || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanCancel reports whether an appointment in the current status may be canceled.
func CanCancel(current Status) error {
	if !current.Active() {
		return httperr.New(httperr.CodeNotFound, "Appointment not found or cannot be canceled")
	}
	return nil
}

// CanClose reports whether a barber may complete or no-show an appointment.
func CanClose(current Status) error {
	if !current.Active() {
		return httperr.New(httperr.CodeConflict, "Appointment is not open")
	}
	return nil
}

func InitialStatus() Status {
	return StatusBooked
}
