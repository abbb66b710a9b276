package payment

import (
	"context"

	"github.com/BruksfildServices01/lefade-api/internal/models"
)

// Repository lookups named Find* return (nil, nil) when nothing matches.
type Repository interface {
	Transaction(
		ctx context.Context,
		fn func(repo Repository) error,
	) error

	// -------- Appointment --------
	FindAppointmentForClient(
		ctx context.Context,
		appointmentID uint,
		clientID uint,
		status string,
	) (*models.Appointment, error)

	TransitionAppointment(
		ctx context.Context,
		appointmentID uint,
		from []string,
		to string,
	) (bool, error)

	// -------- Payment --------
	FindOpenPayment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Payment, error)

	FindPaymentByRef(
		ctx context.Context,
		externalRef string,
	) (*models.Payment, error)

	CreatePayment(
		ctx context.Context,
		p *models.Payment,
	) error

	TransitionPayment(
		ctx context.Context,
		externalRef string,
		from []string,
		to string,
	) (bool, error)
}
