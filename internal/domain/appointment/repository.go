package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/lefade-api/internal/models"
)

// Repository lookups named Find* return (nil, nil) when nothing matches.
type Repository interface {
	Transaction(
		ctx context.Context,
		fn func(repo Repository) error,
	) error

	// -------- Barber --------
	FindBarber(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	ListBarbers(ctx context.Context) ([]models.User, error)

	// -------- Appointment (create / conflict) --------
	FindByIdempotencyKey(
		ctx context.Context,
		clientID uint,
		key string,
	) (*models.Appointment, error)

	HasTimeConflict(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (queries) --------
	ListForClient(
		ctx context.Context,
		clientID uint,
		status string,
		limit int,
		offset int,
	) ([]models.Appointment, error)

	FindActiveForClient(
		ctx context.Context,
		appointmentID uint,
		clientID uint,
	) (*models.Appointment, error)

	FindForBarber(
		ctx context.Context,
		appointmentID uint,
		barberID uint,
	) (*models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
		statuses []string,
	) ([]models.Appointment, error)

	// -------- Appointment (state change) --------

	// SaveTransition persists status, notes and timestamps only while the
	// stored status is still one of from.
	SaveTransition(
		ctx context.Context,
		ap *models.Appointment,
		from []string,
	) (bool, error)

	// -------- Payment --------
	FindCompletedPayment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Payment, error)

	MarkPaymentRefunded(
		ctx context.Context,
		paymentID uint,
	) (bool, error)

	CreatePayment(
		ctx context.Context,
		p *models.Payment,
	) error

	// -------- Availability --------
	FindAvailability(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.Availability, error)

	ListAvailability(
		ctx context.Context,
		barberID uint,
	) ([]models.Availability, error)

	// ReplaceAvailability swaps the barber's whole weekly schedule.
	ReplaceAvailability(
		ctx context.Context,
		barberID uint,
		rows []models.Availability,
	) error
}
