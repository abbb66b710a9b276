package payment

import (
	"context"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
	domainAppointment "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	domain "github.com/BruksfildServices01/lefade-api/internal/domain/payment"
	"github.com/BruksfildServices01/lefade-api/internal/dto"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/infra/repository"
	"github.com/BruksfildServices01/lefade-api/internal/logging"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
)

type CreateIntentInput struct {
	ClientID      uint
	AppointmentID uint
	// Amount is in minor currency units.
	Amount         int64
	Currency       string
	IdempotencyKey string
}

// CreateIntent issues at most one open payment intent per appointment.
type CreateIntent struct {
	repo    domain.Repository
	gateway payments.Gateway
	audit   *audit.Dispatcher
}

func NewCreateIntent(
	repo domain.Repository,
	gateway payments.Gateway,
	audit *audit.Dispatcher,
) *CreateIntent {
	return &CreateIntent{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
	}
}

func (uc *CreateIntent) Execute(
	ctx context.Context,
	in CreateIntentInput,
) (*dto.PaymentIntentResult, error) {

	log := logging.FromContext(ctx)

	if !uc.Enabled() {
		return nil, httperr.ErrBusiness(httperr.CodePaymentProcessingDisabled)
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	var details []string
	if in.AppointmentID == 0 {
		details = append(details, "appointmentId: is required")
	}
	if in.Amount < domain.MinAmount {
		details = append(details, "amount: must be at least 50")
	}
	if key == "" {
		details = append(details, "idempotencyKey: is required")
	}
	if len(details) > 0 {
		return nil, httperr.New(httperr.CodeValidation, "Invalid request data", details...)
	}

	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	ap, err := uc.repo.FindAppointmentForClient(ctx, in.AppointmentID, in.ClientID, string(domainAppointment.StatusBooked))
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.New(httperr.CodeNotFound, "Appointment not found or not eligible for payment")
	}

	if existing, err := uc.repo.FindOpenPayment(ctx, ap.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return existingResult(existing), nil
	}

	// The processor de-duplicates on the same key, so a retry after a
	// lost response gets the same intent back.
	intent, err := uc.gateway.CreatePaymentIntent(ctx, payments.IntentRequest{
		Amount:         in.Amount,
		Currency:       currency,
		IdempotencyKey: key,
		Metadata: map[string]string{
			"appointmentId":  strconv.FormatUint(uint64(ap.ID), 10),
			"userId":         strconv.FormatUint(uint64(in.ClientID), 10),
			"idempotencyKey": key,
		},
	})
	if err != nil {
		log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("failed to create payment intent")
		return nil, err
	}

	p := &models.Payment{
		UserID:        in.ClientID,
		AppointmentID: &ap.ID,
		ExternalRef:   intent.ID,
		Amount:        in.Amount,
		Currency:      currency,
		Kind:          string(domain.KindOneOff),
		Status:        string(domain.StatusPending),
	}

	if err := uc.repo.CreatePayment(ctx, p); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		// A concurrent request already stored the open payment.
		existing, ferr := uc.repo.FindOpenPayment(ctx, ap.ID)
		if ferr != nil {
			return nil, ferr
		}
		if existing == nil {
			return nil, err
		}
		return existingResult(existing), nil
	}

	log.Info().
		Uint("appointment_id", ap.ID).
		Uint("user_id", in.ClientID).
		Str("payment_intent_id", intent.ID).
		Int64("amount", in.Amount).
		Msg("payment intent created")

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.ClientID,
		Action:   "payment_intent_created",
		Entity:   "payment",
		EntityID: &p.ID,
		Metadata: map[string]any{"appointmentId": ap.ID, "amount": in.Amount, "currency": currency},
	})

	return &dto.PaymentIntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Status:          "created",
		Payment: &dto.PaymentSummary{
			ID:     p.ID,
			Amount: p.Amount,
			Status: p.Status,
		},
	}, nil
}

// Enabled reports whether the payment processor is configured.
func (uc *CreateIntent) Enabled() bool {
	return uc.gateway != nil && uc.gateway.Enabled()
}

func existingResult(p *models.Payment) *dto.PaymentIntentResult {
	return &dto.PaymentIntentResult{
		PaymentIntentID: p.ExternalRef,
		Status:          "existing",
	}
}
