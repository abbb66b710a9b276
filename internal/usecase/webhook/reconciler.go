// Package webhook applies payment provider notifications to local state.
// Every transition is conditional on the current status, so redelivered or
// reordered events are harmless.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/lefade-api/internal/apimetrics"
	"github.com/BruksfildServices01/lefade-api/internal/audit"
	domainAppointment "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	domainPayment "github.com/BruksfildServices01/lefade-api/internal/domain/payment"
	domainSubscription "github.com/BruksfildServices01/lefade-api/internal/domain/subscription"
	domainWebhook "github.com/BruksfildServices01/lefade-api/internal/domain/webhook"
	"github.com/BruksfildServices01/lefade-api/internal/logging"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/plans"
)

const Provider = "stripe"

// Outcome is what happened to a delivery.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failed"
)

// errDrop marks an event that cannot be correlated with local state.
var errDrop = errors.New("event dropped")

type Reconciler struct {
	payments      domainPayment.Repository
	subscriptions domainSubscription.Repository
	ledger        domainWebhook.Repository
	catalog       *plans.Catalog
	audit         *audit.Dispatcher
}

func NewReconciler(
	payments domainPayment.Repository,
	subscriptions domainSubscription.Repository,
	ledger domainWebhook.Repository,
	catalog *plans.Catalog,
	audit *audit.Dispatcher,
) *Reconciler {
	return &Reconciler{
		payments:      payments,
		subscriptions: subscriptions,
		ledger:        ledger,
		catalog:       catalog,
		audit:         audit,
	}
}

// Process records the delivery and applies it. An error is returned only
// when the delivery itself could not be recorded, so the provider retries;
// failures while applying the event are logged and kept on the ledger row.
func (r *Reconciler) Process(ctx context.Context, ev Event) (Outcome, error) {
	start := time.Now()
	defer func() {
		apimetrics.WebhookDuration.WithLabelValues(ev.Type).Observe(time.Since(start).Seconds())
	}()

	log := logging.FromContext(ctx).With().
		Str("event_id", ev.ID).
		Str("type", ev.Type).
		Logger()

	row, err := r.ledger.Begin(ctx, Provider, ev.ID, ev.Type)
	if err != nil {
		apimetrics.WebhookRequestsTotal.WithLabelValues(ev.Type, "error").Inc()
		return OutcomeFailed, fmt.Errorf("record webhook event: %w", err)
	}
	if row.ProcessedAt != nil {
		log.Info().Int("deliveries", row.Deliveries).Msg("webhook event already processed")
		apimetrics.WebhookRequestsTotal.WithLabelValues(ev.Type, string(OutcomeDuplicate)).Inc()
		return OutcomeDuplicate, nil
	}

	outcome, applyErr := r.apply(ctx, &log, ev)

	var processingErr string
	switch {
	case applyErr == nil:
	case errors.Is(applyErr, errDrop):
		log.Warn().Err(applyErr).Msg("webhook event dropped")
		processingErr = applyErr.Error()
		outcome = OutcomeIgnored
	default:
		log.Error().Err(applyErr).Msg("webhook processing failed")
		processingErr = applyErr.Error()
		outcome = OutcomeFailed
	}

	if err := r.ledger.Finish(ctx, row.ID, processingErr); err != nil {
		log.Error().Err(err).Msg("failed to finish webhook event")
	}

	apimetrics.WebhookRequestsTotal.WithLabelValues(ev.Type, string(outcome)).Inc()
	return outcome, nil
}

func (r *Reconciler) apply(ctx context.Context, log *zerolog.Logger, ev Event) (Outcome, error) {
	switch ev.Type {
	case "payment_intent.succeeded":
		return r.paymentIntent(ctx, log, ev, domainPayment.StatusCompleted,
			[]string{string(domainAppointment.StatusBooked)}, domainAppointment.StatusConfirmed)

	case "payment_intent.payment_failed", "payment_intent.canceled":
		return r.paymentIntent(ctx, log, ev, domainPayment.StatusFailed,
			[]string{string(domainAppointment.StatusBooked)}, domainAppointment.StatusCanceled)

	case "invoice.paid", "invoice.payment_succeeded":
		return r.invoice(ctx, log, ev, domainSubscription.StatusActive)

	case "invoice.payment_failed":
		return r.invoice(ctx, log, ev, domainSubscription.StatusPastDue)

	case "customer.subscription.updated":
		return r.subscriptionChanged(ctx, log, ev, false)

	case "customer.subscription.deleted":
		return r.subscriptionChanged(ctx, log, ev, true)

	case "checkout.session.completed":
		return r.checkoutCompleted(ctx, log, ev)

	default:
		log.Debug().Msg("webhook ignored (unhandled type)")
		return OutcomeIgnored, nil
	}
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (r *Reconciler) paymentIntent(
	ctx context.Context,
	log *zerolog.Logger,
	ev Event,
	to domainPayment.Status,
	appointmentFrom []string,
	appointmentTo domainAppointment.Status,
) (Outcome, error) {

	var pi paymentIntentObject
	if err := json.Unmarshal(ev.Object, &pi); err != nil {
		return OutcomeFailed, fmt.Errorf("decode payment_intent: %w", err)
	}
	if pi.ID == "" {
		return OutcomeIgnored, fmt.Errorf("%w: payment intent without id", errDrop)
	}

	p, err := r.payments.FindPaymentByRef(ctx, pi.ID)
	if err != nil {
		return OutcomeFailed, err
	}

	appointmentID, ok := parseID(pi.Metadata["appointmentId"])
	if !ok && p != nil && p.AppointmentID != nil {
		appointmentID, ok = *p.AppointmentID, true
	}
	if !ok {
		return OutcomeIgnored, fmt.Errorf("%w: payment intent %s has no appointment", errDrop, pi.ID)
	}

	var paymentMoved, appointmentMoved bool
	err = r.payments.Transaction(ctx, func(tx domainPayment.Repository) error {
		if p != nil {
			moved, err := tx.TransitionPayment(ctx, pi.ID, []string{string(domainPayment.StatusPending)}, string(to))
			if err != nil {
				return err
			}
			paymentMoved = moved
		}

		moved, err := tx.TransitionAppointment(ctx, appointmentID, appointmentFrom, string(appointmentTo))
		if err != nil {
			return err
		}
		appointmentMoved = moved
		return nil
	})
	if err != nil {
		return OutcomeFailed, err
	}

	log.Info().
		Str("payment_intent_id", pi.ID).
		Uint("appointment_id", appointmentID).
		Bool("payment_transitioned", paymentMoved).
		Bool("appointment_transitioned", appointmentMoved).
		Msg("payment event applied")

	if paymentMoved || appointmentMoved {
		r.audit.Dispatch(audit.Event{
			Action:   "webhook_" + ev.Type,
			Entity:   "appointment",
			EntityID: &appointmentID,
			Metadata: map[string]any{
				"paymentIntentId": pi.ID,
				"paymentStatus":   to,
				"appointment":     appointmentTo,
			},
		})
	}

	return OutcomeApplied, nil
}

// --------------------------------------------------
// Subscriptions
// --------------------------------------------------

func (r *Reconciler) invoice(
	ctx context.Context,
	log *zerolog.Logger,
	ev Event,
	to domainSubscription.Status,
) (Outcome, error) {

	var inv invoiceObject
	if err := json.Unmarshal(ev.Object, &inv); err != nil {
		return OutcomeFailed, fmt.Errorf("decode invoice: %w", err)
	}

	subRef := inv.subscriptionID()
	if subRef == "" {
		log.Debug().Str("invoice_id", inv.ID).Msg("invoice without subscription")
		return OutcomeIgnored, nil
	}

	// A late invoice event must not revive a canceled subscription.
	return r.updateSubscription(ctx, log, ev, subRef, to, nil, []string{string(domainSubscription.StatusCanceled)})
}

func (r *Reconciler) subscriptionChanged(
	ctx context.Context,
	log *zerolog.Logger,
	ev Event,
	deleted bool,
) (Outcome, error) {

	var sub subscriptionObject
	if err := json.Unmarshal(ev.Object, &sub); err != nil {
		return OutcomeFailed, fmt.Errorf("decode subscription: %w", err)
	}
	if sub.ID == "" {
		return OutcomeIgnored, fmt.Errorf("%w: subscription without id", errDrop)
	}

	if deleted {
		return r.updateSubscription(ctx, log, ev, sub.ID, domainSubscription.StatusCanceled, nil, nil)
	}
	return r.updateSubscription(ctx, log, ev, sub.ID,
		domainSubscription.MapExternalStatus(sub.Status), sub.periodEnd(), nil)
}

func (r *Reconciler) updateSubscription(
	ctx context.Context,
	log *zerolog.Logger,
	ev Event,
	externalRef string,
	to domainSubscription.Status,
	renewsAt *time.Time,
	except []string,
) (Outcome, error) {

	changed, err := r.subscriptions.UpdateStatus(ctx, externalRef, string(to), renewsAt, except)
	if err != nil {
		return OutcomeFailed, err
	}
	if !changed {
		log.Info().Str("subscription_ref", externalRef).Msg("no local subscription updated")
		return OutcomeIgnored, nil
	}

	log.Info().Str("subscription_ref", externalRef).Str("status", string(to)).Msg("subscription updated")
	r.audit.Dispatch(audit.Event{
		Action:   "webhook_" + ev.Type,
		Entity:   "subscription",
		Metadata: map[string]any{"subscriptionRef": externalRef, "status": to},
	})
	return OutcomeApplied, nil
}

func (r *Reconciler) checkoutCompleted(
	ctx context.Context,
	log *zerolog.Logger,
	ev Event,
) (Outcome, error) {

	var sess checkoutSessionObject
	if err := json.Unmarshal(ev.Object, &sess); err != nil {
		return OutcomeFailed, fmt.Errorf("decode checkout.session: %w", err)
	}
	if sess.Mode != "subscription" {
		return OutcomeIgnored, nil
	}

	subRef := expandableID(sess.Subscription)
	userRef := sess.Metadata["userId"]
	if userRef == "" {
		userRef = sess.ClientReferenceID
	}
	userID, ok := parseID(userRef)
	if subRef == "" || !ok {
		return OutcomeIgnored, fmt.Errorf("%w: checkout session %s missing subscription or user", errDrop, sess.ID)
	}

	plan, ok := r.catalog.Get(sess.Metadata["planId"])
	if !ok {
		return OutcomeIgnored, fmt.Errorf("%w: checkout session %s has unknown plan %q", errDrop, sess.ID, sess.Metadata["planId"])
	}

	status := domainSubscription.StatusTrial
	if sess.PaymentStatus == "paid" {
		status = domainSubscription.StatusActive
	}

	started := time.Now().UTC()
	if sess.Created > 0 {
		started = time.Unix(sess.Created, 0).UTC()
	}

	stored, created, err := r.subscriptions.CreateIfAbsent(ctx, &models.Subscription{
		UserID:      userID,
		PlanID:      plan.ID,
		Status:      string(status),
		StartDate:   started,
		RenewsAt:    started.AddDate(0, 1, 0),
		ExternalRef: subRef,
	})
	if err != nil {
		return OutcomeFailed, err
	}

	log.Info().
		Str("subscription_ref", subRef).
		Uint("user_id", userID).
		Str("plan_id", plan.ID).
		Bool("created", created).
		Msg("checkout completed")

	if created {
		r.audit.Dispatch(audit.Event{
			ActorID:  &userID,
			Action:   "subscription_created",
			Entity:   "subscription",
			EntityID: &stored.ID,
			Metadata: map[string]any{"planId": plan.ID, "status": stored.Status},
		})
	}
	return OutcomeApplied, nil
}
