// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/lefade-api/internal/db"
	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/plans"
)

// Catalog is the plan catalog every test database is migrated with.
func Catalog() *plans.Catalog {
	return plans.NewCatalog("price_standard_test", "price_deluxe_test")
}

// New returns a migrated SQLite database living in t.TempDir().
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "sqlite:" + filepath.Join(t.TempDir(), "lefade.db") + "?_pragma=busy_timeout(5000)"
	gdb, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb, Catalog()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return gdb
}

// CreateUser inserts a user with the given role.
func CreateUser(t *testing.T, gdb *gorm.DB, externalID, role string) *models.User {
	t.Helper()

	u := &models.User{
		ExternalID: externalID,
		Name:       externalID,
		Email:      externalID + "@example.com",
		Role:       role,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", externalID, err)
	}
	return u
}

// CreateAppointment inserts an appointment for a 30 minute slot at start.
func CreateAppointment(t *testing.T, gdb *gorm.DB, clientID, barberID uint, start time.Time, status string) *models.Appointment {
	t.Helper()

	start = start.UTC()
	ap := &models.Appointment{
		ClientID:       clientID,
		BarberID:       barberID,
		Type:           "SHOP",
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Timezone:       "UTC",
		Status:         status,
		IdempotencyKey: "fixture-" + start.Format(time.RFC3339Nano),
	}
	if err := gdb.Create(ap).Error; err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return ap
}

// CreatePayment inserts a ONEOFF payment for an appointment.
func CreatePayment(t *testing.T, gdb *gorm.DB, userID, appointmentID uint, ref string, amount int64, status string) *models.Payment {
	t.Helper()

	p := &models.Payment{
		UserID:        userID,
		AppointmentID: &appointmentID,
		ExternalRef:   ref,
		Amount:        amount,
		Currency:      "usd",
		Kind:          "ONEOFF",
		Status:        status,
	}
	if err := gdb.Create(p).Error; err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return p
}
