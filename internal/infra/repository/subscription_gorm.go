package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/subscription"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type SubscriptionGormRepository struct {
	db *gorm.DB
}

func NewSubscriptionGormRepository(db *gorm.DB) *SubscriptionGormRepository {
	return &SubscriptionGormRepository{db: db}
}

var _ domain.Repository = (*SubscriptionGormRepository)(nil)

func (r *SubscriptionGormRepository) FindByExternalRef(
	ctx context.Context,
	externalRef string,
) (*models.Subscription, error) {

	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("external_ref = ?", externalRef).
		First(&sub).Error
	return notFoundAsNil(&sub, err)
}

func (r *SubscriptionGormRepository) CreateIfAbsent(
	ctx context.Context,
	sub *models.Subscription,
) (*models.Subscription, bool, error) {

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_ref"}},
			DoNothing: true,
		}).
		Create(sub)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return sub, true, nil
	}

	stored, err := r.FindByExternalRef(ctx, sub.ExternalRef)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

func (r *SubscriptionGormRepository) UpdateStatus(
	ctx context.Context,
	externalRef string,
	to string,
	renewsAt *time.Time,
	except []string,
) (bool, error) {

	updates := map[string]any{"status": to}
	if renewsAt != nil {
		updates["renews_at"] = renewsAt.UTC()
	}

	q := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("external_ref = ?", externalRef)
	if len(except) > 0 {
		q = q.Where("status NOT IN ?", except)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SubscriptionGormRepository) FindLatestForUser(
	ctx context.Context,
	userID uint,
) (*models.Subscription, error) {

	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Order("id DESC").
		First(&sub).Error
	return notFoundAsNil(&sub, err)
}
