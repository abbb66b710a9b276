package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type seedUser struct {
	externalID string
	email      string
	name       string
	phone      string
	role       string
}

var seedUsers = []seedUser{
	{"seed|barber_mike", "mike@lefade.com", "Mike Johnson", "+1234567890", "BARBER"},
	{"seed|barber_alex", "alex@lefade.com", "Alex Rodriguez", "+1234567891", "BARBER"},
	{"seed|client_john", "client@example.com", "John Doe", "+1234567892", "CLIENT"},
	{"seed|owner_admin", "admin@lefade.com", "Admin User", "+1234567893", "OWNER"},
}

// Seed loads sample users, barber availability, a subscription, a booked
// appointment and its payment. Running it twice is harmless.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// --------------------------------------------------
		// Users
		// --------------------------------------------------
		users := make(map[string]*models.User, len(seedUsers))
		for _, su := range seedUsers {
			u := models.User{}
			if err := tx.
				Where(models.User{ExternalID: su.externalID}).
				Attrs(models.User{Email: su.email, Name: su.name, Phone: su.phone, Role: su.role}).
				FirstOrCreate(&u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", su.email, err)
			}
			users[su.externalID] = &u
		}
		barbers := []*models.User{users["seed|barber_mike"], users["seed|barber_alex"]}
		client := users["seed|client_john"]

		// --------------------------------------------------
		// Availability: Monday to Friday, 09:00-17:00
		// --------------------------------------------------
		for _, b := range barbers {
			for weekday := int(time.Monday); weekday <= int(time.Friday); weekday++ {
				av := models.Availability{
					BarberID:  b.ID,
					Weekday:   weekday,
					StartTime: "09:00",
					EndTime:   "17:00",
					Timezone:  "America/New_York",
					Active:    true,
				}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&av).Error; err != nil {
					return fmt.Errorf("seed availability: %w", err)
				}
			}
		}

		// --------------------------------------------------
		// Subscription
		// --------------------------------------------------
		now := time.Now().UTC().Truncate(time.Second)
		sub := models.Subscription{}
		if err := tx.
			Where(models.Subscription{ExternalRef: "sub_sample_dev"}).
			Attrs(models.Subscription{
				UserID:    client.ID,
				PlanID:    "standard",
				Status:    "ACTIVE",
				StartDate: now,
				RenewsAt:  now.AddDate(0, 0, 30),
			}).
			FirstOrCreate(&sub).Error; err != nil {
			return fmt.Errorf("seed subscription: %w", err)
		}

		// --------------------------------------------------
		// Appointment + payment
		// --------------------------------------------------
		start := now.Add(24 * time.Hour).Truncate(30 * time.Minute)
		ap := models.Appointment{}
		if err := tx.
			Where(models.Appointment{ClientID: client.ID, IdempotencyKey: "seed-sample-appointment"}).
			Attrs(models.Appointment{
				BarberID:  barbers[0].ID,
				Type:      "SHOP",
				StartTime: start,
				EndTime:   start.Add(30 * time.Minute),
				Timezone:  "America/New_York",
				Status:    "BOOKED",
				Notes:     "Regular haircut",
			}).
			FirstOrCreate(&ap).Error; err != nil {
			return fmt.Errorf("seed appointment: %w", err)
		}

		pay := models.Payment{}
		if err := tx.
			Where(models.Payment{ExternalRef: "pi_sample_dev"}).
			Attrs(models.Payment{
				UserID:        client.ID,
				AppointmentID: &ap.ID,
				Amount:        3999,
				Currency:      "usd",
				Kind:          "ONEOFF",
				Status:        "COMPLETED",
			}).
			FirstOrCreate(&pay).Error; err != nil {
			return fmt.Errorf("seed payment: %w", err)
		}

		log.Info().
			Int("users", len(users)).
			Uint("appointment_id", ap.ID).
			Uint("subscription_id", sub.ID).
			Msg("database seeded")
		return nil
	})
}
