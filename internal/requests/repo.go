package requests

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rakshamitra/relief-backend/pkg/db/models"
	"github.com/rakshamitra/relief-backend/pkg/enums"
	"github.com/rakshamitra/relief-backend/pkg/pagination"
)

// Repository exposes persistence helpers for help requests. Transitions are
// single conditional UPDATEs; RowsAffected is the compare-and-set result, so
// concurrent callers race safely without locks.
type Repository interface {
	Create(ctx context.Context, request *models.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	Accept(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error)
	Resolve(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error)
	Escalate(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error)
	List(ctx context.Context, params listRequestsParams) ([]models.Request, *pagination.Cursor, error)
	ListOpen(ctx context.Context, limit int) ([]models.Request, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a requests repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listRequestsParams struct {
	Status *enums.RequestStatus
	Limit  int
	Cursor *pagination.Cursor
}

// transitionResult reports whether the conditional UPDATE won. When it did
// not, Current carries the row as it stands so callers can classify the
// failure; Current is nil when the id does not exist.
type transitionResult struct {
	Updated bool
	Current *models.Request
}

func (r *repositoryImpl) Create(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) Accept(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND status = ?", requestID, enums.RequestStatusPending).
		Updates(map[string]any{
			"status":                enums.RequestStatusAssigned,
			"assigned_volunteer_id": volunteerID,
			"updated_at":            now,
		})
	if result.Error != nil {
		return transitionResult{}, result.Error
	}
	return r.finishTransition(ctx, requestID, result.RowsAffected > 0)
}

func (r *repositoryImpl) Resolve(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND status IN ? AND assigned_volunteer_id = ?",
			requestID,
			enums.ResolvableRequestStatuses(),
			volunteerID,
		).
		Updates(map[string]any{
			"status":     enums.RequestStatusResolved,
			"updated_at": now,
		})
	if result.Error != nil {
		return transitionResult{}, result.Error
	}
	return r.finishTransition(ctx, requestID, result.RowsAffected > 0)
}

func (r *repositoryImpl) Escalate(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND status = ? AND assigned_volunteer_id = ?",
			requestID, enums.RequestStatusAssigned, volunteerID).
		Updates(map[string]any{
			"status":     enums.RequestStatusInProgress,
			"updated_at": now,
		})
	if result.Error != nil {
		return transitionResult{}, result.Error
	}
	return r.finishTransition(ctx, requestID, result.RowsAffected > 0)
}

// finishTransition re-reads the row so winners return the updated request
// and losers learn what state beat them.
func (r *repositoryImpl) finishTransition(ctx context.Context, requestID uuid.UUID, updated bool) (transitionResult, error) {
	current, err := r.FindByID(ctx, requestID)
	if err != nil {
		return transitionResult{}, err
	}
	return transitionResult{Updated: updated, Current: current}, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listRequestsParams) ([]models.Request, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Request{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var requests []models.Request
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&requests).Error; err != nil {
		return nil, nil, err
	}

	if len(requests) > normalized {
		next := requests[normalized]
		requests = requests[:normalized]
		return requests, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return requests, nil, nil
}

// ListOpen feeds the public intake view: anything still pending plus any
// critical request not yet resolved.
func (r *repositoryImpl) ListOpen(ctx context.Context, limit int) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Model(&models.Request{}).
		Where("status = ? OR (urgency = ? AND status <> ?)",
			enums.RequestStatusPending, enums.UrgencyCritical, enums.RequestStatusResolved).
		Order("created_at DESC, id DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
