package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lefade-api/internal/db/dbtest"
	"github.com/BruksfildServices01/lefade-api/internal/httperr"
	"github.com/BruksfildServices01/lefade-api/internal/infra/repository"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
	"github.com/BruksfildServices01/lefade-api/internal/payments/paymentstest"
)

func TestCreateIntentIsIdempotentPerAppointment(t *testing.T) {
	gdb := dbtest.New(t)
	client := dbtest.CreateUser(t, gdb, "auth0|client", "CLIENT")
	barber := dbtest.CreateUser(t, gdb, "auth0|barber", "BARBER")
	ap := dbtest.CreateAppointment(t, gdb, client.ID, barber.ID, time.Now().Add(48*time.Hour), "BOOKED")

	gw := &paymentstest.Fake{}
	uc := NewCreateIntent(repository.NewPaymentGormRepository(gdb), gw, nil)
	ctx := context.Background()

	in := CreateIntentInput{ClientID: client.ID, AppointmentID: ap.ID, Amount: 3999, IdempotencyKey: "pay-1"}

	first, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "created", first.Status)
	assert.NotEmpty(t, first.ClientSecret)
	require.NotNil(t, first.Payment)
	assert.Equal(t, "PENDING", first.Payment.Status)
	assert.EqualValues(t, 3999, first.Payment.Amount)

	require.Len(t, gw.Intents, 1)
	assert.Equal(t, "usd", gw.Intents[0].Currency)
	assert.Equal(t, "pay-1", gw.Intents[0].IdempotencyKey)

	in.IdempotencyKey = "pay-2"
	second, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "existing", second.Status)
	assert.Equal(t, first.PaymentIntentID, second.PaymentIntentID)
	assert.Len(t, gw.Intents, 1)

	var count int64
	require.NoError(t, gdb.Model(&models.Payment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateIntentRejections(t *testing.T) {
	gdb := dbtest.New(t)
	client := dbtest.CreateUser(t, gdb, "auth0|client", "CLIENT")
	other := dbtest.CreateUser(t, gdb, "auth0|other", "CLIENT")
	barber := dbtest.CreateUser(t, gdb, "auth0|barber", "BARBER")
	booked := dbtest.CreateAppointment(t, gdb, client.ID, barber.ID, time.Now().Add(48*time.Hour), "BOOKED")
	confirmed := dbtest.CreateAppointment(t, gdb, client.ID, barber.ID, time.Now().Add(50*time.Hour), "CONFIRMED")

	repo := repository.NewPaymentGormRepository(gdb)
	ctx := context.Background()

	_, err := NewCreateIntent(repo, payments.Disabled{}, nil).Execute(ctx, CreateIntentInput{
		ClientID: client.ID, AppointmentID: booked.ID, Amount: 3999, IdempotencyKey: "k",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodePaymentProcessingDisabled))

	uc := NewCreateIntent(repo, &paymentstest.Fake{}, nil)

	tests := []struct {
		name string
		in   CreateIntentInput
		code string
	}{
		{"below minimum", CreateIntentInput{ClientID: client.ID, AppointmentID: booked.ID, Amount: 49, IdempotencyKey: "k"}, httperr.CodeValidation},
		{"missing key", CreateIntentInput{ClientID: client.ID, AppointmentID: booked.ID, Amount: 100}, httperr.CodeValidation},
		{"someone else's", CreateIntentInput{ClientID: other.ID, AppointmentID: booked.ID, Amount: 100, IdempotencyKey: "k"}, httperr.CodeNotFound},
		{"not booked", CreateIntentInput{ClientID: client.ID, AppointmentID: confirmed.ID, Amount: 100, IdempotencyKey: "k"}, httperr.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.in)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}
