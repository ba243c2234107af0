package volunteers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakshamitra/relief-backend/pkg/db/models"
	"github.com/rakshamitra/relief-backend/pkg/enums"
)

// Repository exposes persistence helpers for the volunteer registry.
type Repository interface {
	Create(ctx context.Context, volunteer *models.Volunteer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error)
	ListByStatuses(ctx context.Context, statuses []enums.VolunteerStatus) ([]models.Volunteer, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a volunteer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, volunteer *models.Volunteer) error {
	return r.db.WithContext(ctx).Create(volunteer).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	var volunteer models.Volunteer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&volunteer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &volunteer, nil
}

func (r *repositoryImpl) ListByStatuses(ctx context.Context, statuses []enums.VolunteerStatus) ([]models.Volunteer, error) {
	var rows []models.Volunteer
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
