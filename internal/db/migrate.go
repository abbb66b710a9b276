package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/lefade-api/internal/models"
	"github.com/BruksfildServices01/lefade-api/internal/plans"
)

const (
	openPaymentIndex = `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_open_per_appointment
		ON payments (appointment_id)
		WHERE status = 'PENDING' AND kind = 'ONEOFF'
	`

	// Two active appointments of one barber may never overlap. This is the
	// authoritative double-booking guard; the application check only gives
	// a nicer error first.
	barberNoOverlapConstraint = `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'appointments_barber_no_overlap'
			) THEN
				ALTER TABLE appointments
				ADD CONSTRAINT appointments_barber_no_overlap
				EXCLUDE USING gist (
					barber_id WITH =,
					tstzrange(start_time, end_time, '[)') WITH &&
				)
				WHERE (status IN ('BOOKED', 'CONFIRMED'));
			END IF;
		END
		$$;
	`
)

// Migrate brings the schema up to date and upserts the plan catalog.
func Migrate(db *gorm.DB, catalog *plans.Catalog) error {
	if IsPostgres(db) {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
			return fmt.Errorf("enable btree_gist: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Subscription{},
		&models.Availability{},
		&models.Appointment{},
		&models.Payment{},
		&models.AuditLog{},
		&models.WebhookEvent{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(openPaymentIndex).Error; err != nil {
		return fmt.Errorf("create open payment index: %w", err)
	}

	if IsPostgres(db) {
		if err := db.Exec(barberNoOverlapConstraint).Error; err != nil {
			return fmt.Errorf("create overlap constraint: %w", err)
		}
	}

	return SyncPlans(db, catalog)
}

// SyncPlans inserts missing plans and refreshes the display name and
// external price reference of existing ones. Prices are never rewritten.
func SyncPlans(db *gorm.DB, catalog *plans.Catalog) error {
	all := catalog.All()
	if len(all) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "external_price_ref", "updated_at"}),
	}).Create(&all).Error
}
