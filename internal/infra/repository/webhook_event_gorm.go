package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/webhook"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type WebhookEventGormRepository struct {
	db *gorm.DB
}

func NewWebhookEventGormRepository(db *gorm.DB) *WebhookEventGormRepository {
	return &WebhookEventGormRepository{db: db}
}

var _ domain.Repository = (*WebhookEventGormRepository)(nil)

func (r *WebhookEventGormRepository) Begin(
	ctx context.Context,
	provider string,
	externalID string,
	eventType string,
) (*models.WebhookEvent, error) {

	ev := models.WebhookEvent{
		Provider:   provider,
		ExternalID: externalID,
		Type:       eventType,
		Deliveries: 1,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider"}, {Name: "external_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"deliveries": gorm.Expr("webhook_events.deliveries + 1"),
				"updated_at": r.db.NowFunc(),
			}),
		}).
		Create(&ev).Error
	if err != nil {
		return nil, err
	}

	var stored models.WebhookEvent
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND external_id = ?", provider, externalID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *WebhookEventGormRepository) Finish(
	ctx context.Context,
	id uint,
	processingErr string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"processed_at":     r.db.NowFunc(),
			"processing_error": processingErr,
		}).Error
}
