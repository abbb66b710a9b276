package appointment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/BruksfildServices01/lefade-api/internal/apimetrics"
	"github.com/BruksfildServices01/lefade-api/internal/audit"
	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	domainPayment "github.com/BruksfildServices01/lefade-api/internal/domain/payment"
	"github.com/BruksfildServices01/lefade-api/internal/dto"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/logging"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
)

const (
	RefundCompleted   = "completed"
	RefundFailed      = "failed"
	RefundUnavailable = "unavailable"
)

type CancelBookingInput struct {
	ClientID      uint
	AppointmentID uint
	Reason        string
	Refund        bool
}

type CancelBooking struct {
	repo    domain.Repository
	gateway payments.Gateway
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	gateway payments.Gateway,
	audit *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
		now:     time.Now,
	}
}

var errNotCancelable = httperr.New(httperr.CodeNotFound, "Appointment not found or cannot be canceled")

// Execute always commits the cancellation once the appointment is eligible.
// A refund failure is reported in the result, never as an error.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	in CancelBookingInput,
) (*dto.CancelResult, error) {

	log := logging.FromContext(ctx)

	ap, err := uc.repo.FindActiveForClient(ctx, in.AppointmentID, in.ClientID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, errNotCancelable
	}

	now := uc.now().UTC()
	if err := domain.Cancel(ap, in.Reason, now); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Refund (remote, outside the transaction)
	// --------------------------------------------------
	var (
		paid     *models.Payment
		refund   *payments.Refund
		refundRs *dto.RefundResult
	)
	if in.Refund {
		paid, err = uc.repo.FindCompletedPayment(ctx, ap.ID)
		if err != nil {
			return nil, err
		}
		if paid != nil {
			refund, refundRs = uc.refund(ctx, in, paid)
		}
	}

	// --------------------------------------------------
	// Status + refund rows, atomically
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.SaveTransition(ctx, ap, domain.ActiveStatuses)
		if err != nil {
			return err
		}
		if !ok {
			return errNotCancelable
		}

		if refund == nil {
			return nil
		}

		marked, err := tx.MarkPaymentRefunded(ctx, paid.ID)
		if err != nil {
			return err
		}
		if !marked {
			// already refunded by an earlier attempt
			return nil
		}

		return tx.CreatePayment(ctx, &models.Payment{
			UserID:        paid.UserID,
			AppointmentID: &ap.ID,
			ExternalRef:   refund.ID,
			Amount:        domainPayment.RefundAmount(paid.Amount),
			Currency:      paid.Currency,
			Kind:          string(domainPayment.KindRefund),
			Status:        string(domainPayment.StatusCompleted),
		})
	})
	if err != nil {
		if refund != nil {
			log.Error().
				Err(err).
				Uint("appointment_id", ap.ID).
				Str("refund_id", refund.ID).
				Msg("refund issued but local cancellation failed")
		}
		return nil, err
	}

	log.Info().
		Uint("appointment_id", ap.ID).
		Uint("user_id", in.ClientID).
		Str("reason", in.Reason).
		Bool("refund_requested", in.Refund).
		Interface("refund_result", refundRs).
		Msg("appointment canceled")

	uc.audit.Dispatch(audit.Event{
		ActorID:  &in.ClientID,
		Action:   "booking_canceled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": in.Reason, "refund": refundRs},
	})

	return &dto.CancelResult{
		Success: true,
		Appointment: dto.AppointmentSummary{
			ID:      ap.ID,
			StartAt: ap.StartTime,
			EndAt:   ap.EndTime,
			Status:  ap.Status,
		},
		Refund: refundRs,
	}, nil
}

func (uc *CancelBooking) refund(
	ctx context.Context,
	in CancelBookingInput,
	paid *models.Payment,
) (*payments.Refund, *dto.RefundResult) {

	log := logging.FromContext(ctx)

	if uc.gateway == nil || !uc.gateway.Enabled() {
		apimetrics.RefundsTotal.WithLabelValues(RefundUnavailable).Inc()
		return nil, &dto.RefundResult{
			Error:  "Payment processing not available",
			Status: RefundUnavailable,
		}
	}

	reason := in.Reason
	if reason == "" {
		reason = "No reason provided"
	}

	refund, err := uc.gateway.Refund(ctx, payments.RefundRequest{
		PaymentRef:     paid.ExternalRef,
		Amount:         paid.Amount,
		IdempotencyKey: fmt.Sprintf("refund-%d", paid.ID),
		Metadata: map[string]string{
			"appointmentId": strconv.FormatUint(uint64(in.AppointmentID), 10),
			"userId":        strconv.FormatUint(uint64(in.ClientID), 10),
			"reason":        reason,
		},
	})
	if err != nil {
		log.Error().
			Err(err).
			Uint("appointment_id", in.AppointmentID).
			Uint("payment_id", paid.ID).
			Msg("failed to process refund")
		apimetrics.RefundsTotal.WithLabelValues(RefundFailed).Inc()
		return nil, &dto.RefundResult{
			Error:  "Refund processing failed",
			Status: RefundFailed,
		}
	}

	log.Info().
		Uint("appointment_id", in.AppointmentID).
		Str("refund_id", refund.ID).
		Int64("amount", paid.Amount).
		Msg("refund processed")
	apimetrics.RefundsTotal.WithLabelValues(RefundCompleted).Inc()

	return refund, &dto.RefundResult{
		RefundID: refund.ID,
		Amount:   paid.Amount,
		Status:   RefundCompleted,
	}
}
