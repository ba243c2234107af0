package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/rakshamitra/relief-backend/pkg/db/models"
)

// Repository exposes persistence helpers for staff accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, staff *models.Staff) error
	FindByContact(ctx context.Context, contact string) (*models.Staff, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a staff repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *repositoryImpl) FindByContact(ctx context.Context, contact string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Where("contact = ?", contact).
		First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

// isDuplicate reports whether the error is a unique-constraint violation,
// covering the postgres driver and the sqlite driver used in tests.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
