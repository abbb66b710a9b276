package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/lefade-api/internal/domain/kpi"
	"github.com/BruksfildServices01/lefade-api/internal/domain/subscription"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type KPIGormRepository struct {
	db *gorm.DB
}

func NewKPIGormRepository(db *gorm.DB) *KPIGormRepository {
	return &KPIGormRepository{db: db}
}

var _ kpi.Repository = (*KPIGormRepository)(nil)

func (r *KPIGormRepository) LiveMembersByPlan(ctx context.Context) ([]kpi.PlanMembers, error) {
	var rows []kpi.PlanMembers
	err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("subscriptions.plan_id AS plan_id, COUNT(*) AS members, plans.price_monthly AS price_monthly").
		Joins("JOIN plans ON plans.id = subscriptions.plan_id").
		Where("subscriptions.status IN ?", subscription.LiveStatuses).
		Group("subscriptions.plan_id, plans.price_monthly").
		Order("subscriptions.plan_id").
		Scan(&rows).Error
	return rows, err
}

func (r *KPIGormRepository) AppointmentCounts(
	ctx context.Context,
	from time.Time,
	to time.Time,
) (kpi.AppointmentCounts, error) {

	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS n").
		Where("start_time >= ? AND start_time <= ?", from.UTC(), to.UTC()).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return kpi.AppointmentCounts{}, err
	}

	var out kpi.AppointmentCounts
	for _, row := range rows {
		out.Total += row.N
		switch row.Status {
		case "COMPLETED":
			out.Completed = row.N
		case "NO_SHOW":
			out.NoShow = row.N
		}
	}
	return out, nil
}

func (r *KPIGormRepository) CanceledSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("status = ? AND renews_at >= ?", string(subscription.StatusCanceled), since.UTC()).
		Count(&n).Error
	return n, err
}

func (r *KPIGormRepository) LiveStartedBefore(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("status IN ? AND start_date <= ?", subscription.LiveStatuses, before.UTC()).
		Count(&n).Error
	return n, err
}

func (r *KPIGormRepository) TrialsStartedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("status = ? AND start_date >= ?", string(subscription.StatusTrial), since.UTC()).
		Count(&n).Error
	return n, err
}

func (r *KPIGormRepository) CountBarbers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", "BARBER").
		Count(&n).Error
	return n, err
}

func (r *KPIGormRepository) FreeCutsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("is_free = ? AND start_time >= ?", true, since.UTC()).
		Count(&n).Error
	return n, err
}
