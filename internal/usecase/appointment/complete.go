package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type CloseAction string

const (
	CloseCompleted CloseAction = "completed"
	CloseNoShow    CloseAction = "no_show"
)

// CloseAppointment lets a barber mark one of their own open appointments
// as completed or as a no-show.
type CloseAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCloseAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CloseAppointment {
	return &CloseAppointment{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *CloseAppointment) Execute(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
	action CloseAction,
) (*models.Appointment, error) {

	ap, err := uc.repo.FindForBarber(ctx, appointmentID, barberID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.New(httperr.CodeNotFound, "Appointment not found")
	}

	now := uc.now().UTC()
	switch action {
	case CloseCompleted:
		err = domain.Complete(ap, now)
	case CloseNoShow:
		err = domain.MarkNoShow(ap, now)
	default:
		err = httperr.New(httperr.CodeValidation, "Unknown action")
	}
	if err != nil {
		return nil, err
	}

	ok, err := uc.repo.SaveTransition(ctx, ap, domain.ActiveStatuses)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.New(httperr.CodeConflict, "Appointment is not open")
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &barberID,
		Action:   "appointment_" + string(action),
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
