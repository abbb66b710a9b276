package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

var _ domain.Repository = (*AppointmentGormRepository)(nil)

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(repo domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *AppointmentGormRepository) FindBarber(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, "BARBER").
		First(&u).Error
	return notFoundAsNil(&u, err)
}

func (r *AppointmentGormRepository) ListBarbers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", "BARBER").
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) FindByIdempotencyKey(
	ctx context.Context,
	clientID uint,
	key string,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND idempotency_key = ?", clientID, key).
		First(&ap).Error
	return notFoundAsNil(&ap, err)
}

func (r *AppointmentGormRepository) HasTimeConflict(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"barber_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			barberID,
			domain.ActiveStatuses,
			end.UTC(),
			start.UTC(),
		).
		Limit(1)

	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

// --------------------------------------------------
// Appointment (queries)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForClient(
	ctx context.Context,
	clientID uint,
	status string,
	limit int,
	offset int,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Barber").
		Where("client_id = ?", clientID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var out []models.Appointment
	if err := q.
		Order("start_time DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) FindActiveForClient(
	ctx context.Context,
	appointmentID uint,
	clientID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ? AND status IN ?", appointmentID, clientID, domain.ActiveStatuses).
		First(&ap).Error
	return notFoundAsNil(&ap, err)
}

func (r *AppointmentGormRepository) FindForBarber(
	ctx context.Context,
	appointmentID uint,
	barberID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", appointmentID, barberID).
		First(&ap).Error
	return notFoundAsNil(&ap, err)
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	statuses []string,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Where("barber_id = ? AND start_time < ? AND end_time > ?", barberID, end.UTC(), start.UTC())
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var out []models.Appointment
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) SaveTransition(
	ctx context.Context,
	ap *models.Appointment,
	from []string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", ap.ID, from).
		Updates(map[string]any{
			"status":       ap.Status,
			"notes":        ap.Notes,
			"canceled_at":  ap.CanceledAt,
			"completed_at": ap.CompletedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *AppointmentGormRepository) FindCompletedPayment(
	ctx context.Context,
	appointmentID uint,
) (*models.Payment, error) {

	var p models.Payment
	err := r.db.WithContext(ctx).
		Where("appointment_id = ? AND kind = ? AND status = ?", appointmentID, "ONEOFF", "COMPLETED").
		Order("id DESC").
		First(&p).Error
	return notFoundAsNil(&p, err)
}

func (r *AppointmentGormRepository) MarkPaymentRefunded(
	ctx context.Context,
	paymentID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, "COMPLETED").
		Update("status", "REFUNDED")
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AppointmentGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) FindAvailability(
	ctx context.Context,
	barberID uint,
	weekday int,
) (*models.Availability, error) {

	var av models.Availability
	err := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ? AND active = ?", barberID, weekday, true).
		First(&av).Error
	return notFoundAsNil(&av, err)
}

func (r *AppointmentGormRepository) ListAvailability(
	ctx context.Context,
	barberID uint,
) ([]models.Availability, error) {

	rows := make([]models.Availability, 0)
	err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&rows).Error
	return rows, err
}

func (r *AppointmentGormRepository) ReplaceAvailability(
	ctx context.Context,
	barberID uint,
	rows []models.Availability,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("barber_id = ?", barberID).
			Delete(&models.Availability{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].BarberID = barberID
		}
		return tx.Create(&rows).Error
	})
}
