package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/lefade-api/internal/apimetrics"
	"github.com/BruksfildServices01/lefade-api/internal/audit"
	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lefade-api/internal/dto"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/infra/repository"
	"github.com/BruksfildServices01/lefade-api/internal/logging"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ClientID uint
	BarberID uint

	// StartAt is RFC3339, or a wall-clock "2006-01-02T15:04" in Timezone.
	StartAt  string
	Timezone string

	IdempotencyKey string
	Notes          string
	Address        string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

var errSlotTaken = httperr.New(httperr.CodeConflict, "Time slot is no longer available")

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*dto.BookingResult, error) {

	log := logging.FromContext(ctx)

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		return nil, httperr.New(httperr.CodeValidation, "Invalid request data", "idempotencyKey: is required")
	}

	tz := in.Timezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		return nil, httperr.New(httperr.CodeValidation, "Invalid request data", "timezone: unknown time zone")
	}

	start, err := timezone.ParseInstant(strings.TrimSpace(in.StartAt), tz)
	if err != nil {
		return nil, httperr.New(httperr.CodeValidation, "Invalid request data", "startAt: invalid date format")
	}

	// --------------------------------------------------
	// Retried submission
	// --------------------------------------------------
	if existing, err := uc.repo.FindByIdempotencyKey(ctx, in.ClientID, key); err != nil {
		return nil, err
	} else if existing != nil {
		return uc.duplicate(ctx, in.ClientID, key, existing), nil
	}

	if !start.After(uc.now()) {
		apimetrics.BookingsTotal.WithLabelValues("rejected").Inc()
		return nil, httperr.New(httperr.CodeValidation, "Appointment time must be in the future")
	}

	barber, err := uc.repo.FindBarber(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}
	if barber == nil {
		return nil, httperr.New(httperr.CodeNotFound, "Barber not found")
	}

	ap := &models.Appointment{
		ClientID:       in.ClientID,
		BarberID:       barber.ID,
		Type:           string(domain.TypeFor(in.Address)),
		StartTime:      start,
		EndTime:        domain.EndFor(start),
		Timezone:       tz,
		Status:         string(domain.InitialStatus()),
		Address:        strings.TrimSpace(in.Address),
		Notes:          strings.TrimSpace(in.Notes),
		IsFree:         false,
		IdempotencyKey: key,
	}

	// --------------------------------------------------
	// Conflict check + insert. The storage constraints are authoritative;
	// the pre-check only produces the nicer error earlier.
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		taken, err := tx.HasTimeConflict(ctx, ap.BarberID, ap.StartTime, ap.EndTime)
		if err != nil {
			return err
		}
		if taken {
			return errSlotTaken
		}
		return tx.CreateAppointment(ctx, ap)
	})

	switch {
	case err == nil:
	case repository.IsExclusionConflict(err):
		err = errSlotTaken
		fallthrough
	case httperr.IsBusiness(err, httperr.CodeConflict):
		apimetrics.BookingsTotal.WithLabelValues("conflict").Inc()
		uc.audit.Dispatch(audit.Event{
			ActorID:  &in.ClientID,
			Action:   "booking_conflict",
			Entity:   "appointment",
			Metadata: map[string]any{"barberId": in.BarberID, "startAt": start},
		})
		return nil, err
	case repository.IsUniqueViolation(err):
		// Lost a race against the same idempotency key.
		existing, ferr := uc.repo.FindByIdempotencyKey(ctx, in.ClientID, key)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, err
		}
		return uc.duplicate(ctx, in.ClientID, key, existing), nil
	default:
		return nil, err
	}

	log.Info().
		Uint("appointment_id", ap.ID).
		Uint("user_id", in.ClientID).
		Uint("barber_id", ap.BarberID).
		Time("start_at", ap.StartTime).
		Str("idempotency_key", key).
		Msg("appointment created")

	apimetrics.BookingsTotal.WithLabelValues("created").Inc()
	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.ClientID,
		Action:   "booking_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"barberId": ap.BarberID, "startAt": ap.StartTime, "type": ap.Type},
	})

	return &dto.BookingResult{
		AppointmentID: ap.ID,
		Status:        "created",
		Appointment: &dto.AppointmentSummary{
			ID:      ap.ID,
			StartAt: ap.StartTime,
			EndAt:   ap.EndTime,
			Status:  ap.Status,
			Type:    ap.Type,
		},
	}, nil
}

func (uc *CreateBooking) duplicate(
	ctx context.Context,
	clientID uint,
	key string,
	existing *models.Appointment,
) *dto.BookingResult {

	logging.FromContext(ctx).Info().
		Uint("user_id", clientID).
		Str("idempotency_key", key).
		Uint("existing_appointment_id", existing.ID).
		Msg("duplicate booking request")

	apimetrics.BookingsTotal.WithLabelValues("duplicate").Inc()
	uc.audit.Dispatch(audit.Event{
		ActorID:  &clientID,
		Action:   "booking_duplicate",
		Entity:   "appointment",
		EntityID: &existing.ID,
	})

	return &dto.BookingResult{
		AppointmentID: existing.ID,
		Status:        "duplicate",
	}
}
