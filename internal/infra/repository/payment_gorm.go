package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/payment"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

var _ domain.Repository = (*PaymentGormRepository)(nil)

func (r *PaymentGormRepository) Transaction(
	ctx context.Context,
	fn func(repo domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PaymentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *PaymentGormRepository) FindAppointmentForClient(
	ctx context.Context,
	appointmentID uint,
	clientID uint,
	status string,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ? AND status = ?", appointmentID, clientID, status).
		First(&ap).Error
	return notFoundAsNil(&ap, err)
}

func (r *PaymentGormRepository) TransitionAppointment(
	ctx context.Context,
	appointmentID uint,
	from []string,
	to string,
) (bool, error) {

	updates := map[string]any{"status": to}
	if to == "CANCELED" {
		updates["canceled_at"] = r.db.NowFunc()
	}

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", appointmentID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *PaymentGormRepository) FindOpenPayment(
	ctx context.Context,
	appointmentID uint,
) (*models.Payment, error) {

	var p models.Payment
	err := r.db.WithContext(ctx).
		Where("appointment_id = ? AND kind = ? AND status IN ?", appointmentID, "ONEOFF", domain.OpenStatuses).
		Order("id DESC").
		First(&p).Error
	return notFoundAsNil(&p, err)
}

func (r *PaymentGormRepository) FindPaymentByRef(
	ctx context.Context,
	externalRef string,
) (*models.Payment, error) {

	var p models.Payment
	err := r.db.WithContext(ctx).
		Where("external_ref = ?", externalRef).
		First(&p).Error
	return notFoundAsNil(&p, err)
}

func (r *PaymentGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentGormRepository) TransitionPayment(
	ctx context.Context,
	externalRef string,
	from []string,
	to string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("external_ref = ? AND status IN ?", externalRef, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
