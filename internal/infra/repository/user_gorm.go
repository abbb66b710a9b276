package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/lefade-api/internal/domain/user"
	"github.com/BruksfildServices01/lefade-api/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

var _ domain.Repository = (*UserGormRepository)(nil)

func (r *UserGormRepository) FindByExternalID(
	ctx context.Context,
	externalID string,
) (*models.User, error) {

	var u models.User
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&u).Error
	return notFoundAsNil(&u, err)
}

func (r *UserGormRepository) FindByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return notFoundAsNil(&u, err)
}

func (r *UserGormRepository) Create(
	ctx context.Context,
	u *models.User,
) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *UserGormRepository) UpdateRole(
	ctx context.Context,
	id uint,
	role string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role).Error
}
