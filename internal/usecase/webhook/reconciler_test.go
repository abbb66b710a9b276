package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lefade-api/internal/db/dbtest"
	"github.com/BruksfildServices01/lefade-api/internal/infra/repository"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

func newReconciler(gdb *gorm.DB) *Reconciler {
	return NewReconciler(
		repository.NewPaymentGormRepository(gdb),
		repository.NewSubscriptionGormRepository(gdb),
		repository.NewWebhookEventGormRepository(gdb),
		dbtest.Catalog(),
		nil,
	)
}

func event(id, typ string, obj any) Event {
	raw, _ := json.Marshal(obj)
	return Event{ID: id, Type: typ, Object: raw}
}

type world struct {
	db     *gorm.DB
	client *models.User
	ap     *models.Appointment
	pay    *models.Payment
}

func bookedAndPending(t *testing.T) world {
	t.Helper()
	gdb := dbtest.New(t)
	client := dbtest.CreateUser(t, gdb, "auth0|client", "CLIENT")
	barber := dbtest.CreateUser(t, gdb, "auth0|barber", "BARBER")
	ap := dbtest.CreateAppointment(t, gdb, client.ID, barber.ID, time.Now().Add(48*time.Hour), "BOOKED")
	pay := dbtest.CreatePayment(t, gdb, client.ID, ap.ID, "pi_123", 3999, "PENDING")
	return world{db: gdb, client: client, ap: ap, pay: pay}
}

func reload[T any](t *testing.T, gdb *gorm.DB, id uint) T {
	t.Helper()
	var v T
	require.NoError(t, gdb.First(&v, id).Error)
	return v
}

func TestPaymentSucceededConfirmsOnce(t *testing.T) {
	w := bookedAndPending(t)
	r := newReconciler(w.db)
	ctx := context.Background()

	ev := event("evt_1", "payment_intent.succeeded", map[string]any{
		"id":       "pi_123",
		"metadata": map[string]string{"appointmentId": fmt.Sprint(w.ap.ID)},
	})

	out, err := r.Process(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, out)
	assert.Equal(t, "COMPLETED", reload[models.Payment](t, w.db, w.pay.ID).Status)
	assert.Equal(t, "CONFIRMED", reload[models.Appointment](t, w.db, w.ap.ID).Status)

	out, err = r.Process(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, out)

	var ledger models.WebhookEvent
	require.NoError(t, w.db.Where("external_id = ?", "evt_1").First(&ledger).Error)
	assert.Equal(t, 2, ledger.Deliveries)
	assert.NotNil(t, ledger.ProcessedAt)

	var payments int64
	require.NoError(t, w.db.Model(&models.Payment{}).Count(&payments).Error)
	assert.EqualValues(t, 1, payments)
}

func TestPaymentSucceededWithoutMetadataUsesPaymentRow(t *testing.T) {
	w := bookedAndPending(t)
	r := newReconciler(w.db)

	_, err := r.Process(context.Background(), event("evt_2", "payment_intent.succeeded", map[string]any{"id": "pi_123"}))
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", reload[models.Appointment](t, w.db, w.ap.ID).Status)
}

func TestPaymentFailedCancelsBookedAppointment(t *testing.T) {
	for _, typ := range []string{"payment_intent.payment_failed", "payment_intent.canceled"} {
		t.Run(typ, func(t *testing.T) {
			w := bookedAndPending(t)
			r := newReconciler(w.db)

			out, err := r.Process(context.Background(), event("evt_"+typ, typ, map[string]any{"id": "pi_123"}))
			require.NoError(t, err)
			assert.Equal(t, OutcomeApplied, out)

			assert.Equal(t, "FAILED", reload[models.Payment](t, w.db, w.pay.ID).Status)
			ap := reload[models.Appointment](t, w.db, w.ap.ID)
			assert.Equal(t, "CANCELED", ap.Status)
			assert.NotNil(t, ap.CanceledAt)
		})
	}
}

func TestLateFailureDoesNotUndoSuccess(t *testing.T) {
	w := bookedAndPending(t)
	r := newReconciler(w.db)
	ctx := context.Background()

	_, err := r.Process(ctx, event("evt_ok", "payment_intent.succeeded", map[string]any{"id": "pi_123"}))
	require.NoError(t, err)
	_, err = r.Process(ctx, event("evt_late", "payment_intent.payment_failed", map[string]any{"id": "pi_123"}))
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", reload[models.Payment](t, w.db, w.pay.ID).Status)
	assert.Equal(t, "CONFIRMED", reload[models.Appointment](t, w.db, w.ap.ID).Status)
}

func TestUncorrelatedPaymentIsDropped(t *testing.T) {
	gdb := dbtest.New(t)
	r := newReconciler(gdb)

	out, err := r.Process(context.Background(), event("evt_x", "payment_intent.succeeded", map[string]any{"id": "pi_unknown"}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)

	var ledger models.WebhookEvent
	require.NoError(t, gdb.Where("external_id = ?", "evt_x").First(&ledger).Error)
	assert.Contains(t, ledger.ProcessingError, "no appointment")
}

func TestMalformedPayloadIsAcknowledged(t *testing.T) {
	gdb := dbtest.New(t)
	r := newReconciler(gdb)

	out, err := r.Process(context.Background(), Event{ID: "evt_bad", Type: "payment_intent.succeeded", Object: json.RawMessage(`"nope"`)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, out)
}

func TestUnknownEventIgnored(t *testing.T) {
	r := newReconciler(dbtest.New(t))
	out, err := r.Process(context.Background(), event("evt_u", "charge.dispute.created", map[string]any{"id": "dp_1"}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out)
}

func TestSubscriptionLifecycle(t *testing.T) {
	gdb := dbtest.New(t)
	user := dbtest.CreateUser(t, gdb, "auth0|member", "CLIENT")
	r := newReconciler(gdb)
	ctx := context.Background()

	status := func() models.Subscription {
		var s models.Subscription
		require.NoError(t, gdb.Where("external_ref = ?", "sub_1").First(&s).Error)
		return s
	}

	_, err := r.Process(ctx, event("evt_c", "checkout.session.completed", map[string]any{
		"id":             "cs_1",
		"mode":           "subscription",
		"payment_status": "paid",
		"subscription":   "sub_1",
		"created":        time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC).Unix(),
		"metadata":       map[string]string{"userId": fmt.Sprint(user.ID), "planId": "deluxe"},
	}))
	require.NoError(t, err)
	s := status()
	assert.Equal(t, "ACTIVE", s.Status)
	assert.Equal(t, "deluxe", s.PlanID)
	assert.Equal(t, time.Date(2030, 2, 15, 0, 0, 0, 0, time.UTC), s.RenewsAt.UTC())

	// new API shape: subscription id under parent.subscription_details
	_, err = r.Process(ctx, event("evt_f", "invoice.payment_failed", map[string]any{
		"id":     "in_1",
		"parent": map[string]any{"subscription_details": map[string]any{"subscription": "sub_1"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "PAST_DUE", status().Status)

	_, err = r.Process(ctx, event("evt_p", "invoice.paid", map[string]any{"id": "in_2", "subscription": "sub_1"}))
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", status().Status)

	renew := time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err = r.Process(ctx, event("evt_upd", "customer.subscription.updated", map[string]any{
		"id":     "sub_1",
		"status": "past_due",
		"items":  map[string]any{"data": []map[string]any{{"current_period_end": renew.Unix()}}},
	}))
	require.NoError(t, err)
	s = status()
	assert.Equal(t, "PAST_DUE", s.Status)
	assert.Equal(t, renew, s.RenewsAt.UTC())

	_, err = r.Process(ctx, event("evt_del", "customer.subscription.deleted", map[string]any{"id": "sub_1", "status": "canceled"}))
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", status().Status)

	// a late invoice does not revive it
	_, err = r.Process(ctx, event("evt_late", "invoice.paid", map[string]any{"id": "in_3", "subscription": "sub_1"}))
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", status().Status)

	// a redelivered checkout does not create a second row
	_, err = r.Process(ctx, event("evt_c2", "checkout.session.completed", map[string]any{
		"id": "cs_1", "mode": "subscription", "subscription": "sub_1",
		"metadata": map[string]string{"userId": fmt.Sprint(user.ID), "planId": "deluxe"},
	}))
	require.NoError(t, err)
	var count int64
	require.NoError(t, gdb.Model(&models.Subscription{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestExpandableID(t *testing.T) {
	assert.Equal(t, "sub_1", expandableID(json.RawMessage(`"sub_1"`)))
	assert.Equal(t, "sub_2", expandableID(json.RawMessage(`{"id":"sub_2","object":"subscription"}`)))
	assert.Empty(t, expandableID(json.RawMessage(`null`)))
	assert.Empty(t, expandableID(nil))
}
