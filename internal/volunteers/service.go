package volunteers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rakshamitra/relief-backend/pkg/db/models"
	"github.com/rakshamitra/relief-backend/pkg/enums"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/phone"
)

// RegisterParams carries volunteer registration input after validation.
type RegisterParams struct {
	Name         string
	Contact      string
	Skills       string
	Location     string
	Availability string
}

// Service manages the volunteer registry. It also serves as the contact
// directory for notifications and alert fan-out.
type Service interface {
	Register(ctx context.Context, params RegisterParams) (*models.Volunteer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error)
	ListActive(ctx context.Context) ([]models.Volunteer, error)
	ListNotifiable(ctx context.Context) ([]models.Volunteer, error)
}

type service struct {
	repo       Repository
	normalizer phone.Normalizer
}

// NewService wires volunteer registry dependencies.
func NewService(repo Repository, countryCode string) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "volunteers repository required")
	}
	return &service{
		repo:       repo,
		normalizer: phone.Normalizer{CountryCode: countryCode},
	}, nil
}

func (s *service) Register(ctx context.Context, params RegisterParams) (*models.Volunteer, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if strings.TrimSpace(params.Contact) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact required")
	}

	contact := strings.TrimSpace(params.Contact)
	if phone.LooksLikePhoneNumber(contact) {
		contact = s.normalizer.Normalize(contact)
	}
	availability := strings.TrimSpace(params.Availability)
	if availability == "" {
		availability = "available"
	}

	volunteer := &models.Volunteer{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(params.Name),
		Contact:      contact,
		Skills:       strings.TrimSpace(params.Skills),
		Location:     strings.TrimSpace(params.Location),
		Availability: availability,
		Status:       enums.VolunteerStatusActive,
	}
	if err := s.repo.Create(ctx, volunteer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register volunteer")
	}
	return volunteer, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "volunteer id required")
	}
	volunteer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find volunteer")
	}
	return volunteer, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Volunteer, error) {
	rows, err := s.repo.ListByStatuses(ctx, []enums.VolunteerStatus{
		enums.VolunteerStatusActive,
		enums.VolunteerStatusVerified,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list volunteers")
	}
	return rows, nil
}

// ListNotifiable mirrors ListActive today; the distinction exists so alert
// fan-out can diverge from the public listing without an API change.
func (s *service) ListNotifiable(ctx context.Context) ([]models.Volunteer, error) {
	return s.ListActive(ctx)
}
