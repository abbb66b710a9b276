package kpi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lefade-api/internal/db/dbtest"
	"github.com/BruksfildServices01/lefade-api/internal/infra/repository"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
	"github.com/BruksfildServices01/lefade-api/internal/payments/paymentstest"
)

// Wednesday, noon in New York.
var fixedNow = time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC)

func subscribe(t *testing.T, gdb *gorm.DB, userID uint, plan, status, ref string, start time.Time) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.Subscription{
		UserID:      userID,
		PlanID:      plan,
		Status:      status,
		StartDate:   start,
		RenewsAt:    start.AddDate(0, 1, 0),
		ExternalRef: ref,
	}).Error)
}

func newSnapshot(gdb *gorm.DB, gw payments.Gateway) *GetSnapshot {
	uc := NewGetSnapshot(repository.NewKPIGormRepository(gdb), gw, nil, "America/New_York")
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestSnapshotEmpty(t *testing.T) {
	gdb := dbtest.New(t)

	snap, err := newSnapshot(gdb, payments.Disabled{}).Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, snap.ActiveMembers)
	assert.Zero(t, snap.MRR)
	assert.Equal(t, 1.0, snap.CompletionRate)
	assert.Zero(t, snap.Churn30)
	assert.Zero(t, snap.Revenue30)
	assert.EqualValues(t, opsMonthlyCost, snap.Costs)
	assert.EqualValues(t, -opsMonthlyCost, snap.Profit)
}

func TestSnapshot(t *testing.T) {
	gdb := dbtest.New(t)

	barber := dbtest.CreateUser(t, gdb, "auth0|barber", "BARBER")
	dbtest.CreateUser(t, gdb, "auth0|barber2", "BARBER")
	a := dbtest.CreateUser(t, gdb, "auth0|a", "CLIENT")
	b := dbtest.CreateUser(t, gdb, "auth0|b", "CLIENT")
	c := dbtest.CreateUser(t, gdb, "auth0|c", "CLIENT")
	d := dbtest.CreateUser(t, gdb, "auth0|d", "CLIENT")

	longAgo := fixedNow.AddDate(0, -3, 0)
	subscribe(t, gdb, a.ID, "standard", "ACTIVE", "sub_a", longAgo)
	subscribe(t, gdb, b.ID, "deluxe", "ACTIVE", "sub_b", longAgo)
	subscribe(t, gdb, c.ID, "standard", "TRIAL", "sub_c", fixedNow.AddDate(0, 0, -2))
	// canceled recently: its renewal date is within the last 30 days
	require.NoError(t, gdb.Create(&models.Subscription{
		UserID: d.ID, PlanID: "deluxe", Status: "CANCELED",
		StartDate: longAgo, RenewsAt: fixedNow.AddDate(0, 0, -5), ExternalRef: "sub_d",
	}).Error)

	// Sunday 2025-03-09 through Saturday 2025-03-15 in New York.
	monday := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	dbtest.CreateAppointment(t, gdb, a.ID, barber.ID, monday, "COMPLETED")
	dbtest.CreateAppointment(t, gdb, a.ID, barber.ID, monday.Add(time.Hour), "COMPLETED")
	dbtest.CreateAppointment(t, gdb, b.ID, barber.ID, monday.Add(2*time.Hour), "COMPLETED")
	dbtest.CreateAppointment(t, gdb, b.ID, barber.ID, monday.Add(3*time.Hour), "NO_SHOW")
	dbtest.CreateAppointment(t, gdb, c.ID, barber.ID, fixedNow.Add(48*time.Hour), "BOOKED")
	// previous week
	dbtest.CreateAppointment(t, gdb, c.ID, barber.ID, monday.AddDate(0, 0, -7), "COMPLETED")

	free := dbtest.CreateAppointment(t, gdb, c.ID, barber.ID, fixedNow.AddDate(0, 0, -10), "COMPLETED")
	require.NoError(t, gdb.Model(free).Update("is_free", true).Error)

	gw := &paymentstest.Fake{InvoiceTotal: 25000}
	snap, err := newSnapshot(gdb, gw).Execute(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, snap.ActiveMembers)
	assert.EqualValues(t, 3999*2+6000, snap.MRR)
	assert.EqualValues(t, 5, snap.BookingsThisWeek)
	assert.InDelta(t, 0.75, snap.CompletionRate, 1e-9)
	assert.InDelta(t, 0.5, snap.Churn30, 1e-9)
	assert.EqualValues(t, 1, snap.Trials7)
	assert.EqualValues(t, 25000, snap.Revenue30)

	assert.Equal(t, Breakdown{
		BaseCost:     2 * 4 * 6000,
		StandardCost: 2 * 3000,
		DeluxeCost:   1 * 2250,
		BonusCost:    1 * 1000,
		OpsCost:      5000,
	}, snap.Breakdown)
	assert.EqualValues(t, 48000+6000+2250+1000+5000, snap.Costs)
	assert.Equal(t, snap.Revenue30-snap.Costs, snap.Profit)
}

func TestSnapshotRevenueFailureIsZero(t *testing.T) {
	gdb := dbtest.New(t)

	snap, err := newSnapshot(gdb, &paymentstest.Fake{InvoiceErr: errors.New("stripe down")}).Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.Revenue30)
}

func TestWeekBounds(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start, end := weekBounds(time.Date(2025, 3, 12, 12, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, loc).Add(-time.Nanosecond), end)
}
