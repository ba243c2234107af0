package staff

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rakshamitra/relief-backend/pkg/auth"
	"github.com/rakshamitra/relief-backend/pkg/config"
	"github.com/rakshamitra/relief-backend/pkg/db/models"
	"github.com/rakshamitra/relief-backend/pkg/enums"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/phone"
	"github.com/rakshamitra/relief-backend/pkg/security"

	"github.com/google/uuid"
)

const minPasswordLength = 8

// SignupParams carries staff onboarding input after validation.
type SignupParams struct {
	Name          string
	Contact       string
	Password      string
	Role          string
	Department    *string
	Certification *string
}

// Credentials carries a login attempt.
type Credentials struct {
	Contact  string
	Password string
}

// AuthResult pairs the issued token with the authenticated account.
type AuthResult struct {
	Token string        `json:"token"`
	Staff *models.Staff `json:"staff"`
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service handles staff signup and login. Login failures are deliberately
// indistinct so callers cannot probe which contacts exist.
type Service interface {
	Signup(ctx context.Context, params SignupParams) (*AuthResult, error)
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
}

// Options wires the staff auth dependencies.
type Options struct {
	Repo        Repository
	Tx          TxRunner
	JWT         config.JWTConfig
	Password    config.PasswordConfig
	CountryCode string
}

type service struct {
	repo        Repository
	tx          TxRunner
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	normalizer  phone.Normalizer
}

// NewService wires staff auth dependencies.
func NewService(opts Options) (Service, error) {
	if opts.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "staff repository required")
	}
	if opts.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		repo:        opts.Repo,
		tx:          opts.Tx,
		jwtCfg:      opts.JWT,
		passwordCfg: opts.Password,
		normalizer:  phone.Normalizer{CountryCode: opts.CountryCode},
	}, nil
}

func (s *service) Signup(ctx context.Context, params SignupParams) (*AuthResult, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	contact := s.canonicalContact(params.Contact)
	if contact == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact required")
	}
	if len(params.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	role := enums.StaffRoleResponder
	if strings.TrimSpace(params.Role) != "" {
		parsed, err := enums.ParseStaffRole(strings.ToLower(strings.TrimSpace(params.Role)))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		role = parsed
	}

	passwordHash, err := security.HashPassword(params.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	account := &models.Staff{
		ID:            uuid.New(),
		Name:          name,
		Contact:       contact,
		PasswordHash:  passwordHash,
		Role:          role,
		Department:    params.Department,
		Certification: params.Certification,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByContact(ctx, contact)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check staff contact")
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "contact already registered")
		}

		if err := repo.Create(ctx, account); err != nil {
			if isDuplicate(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "contact already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create staff account")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueToken(account)
}

func (s *service) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	contact := s.canonicalContact(creds.Contact)
	if contact == "" || creds.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	account, err := s.repo.FindByContact(ctx, contact)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find staff account")
	}
	if account == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(creds.Password, account.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issueToken(account)
}

func (s *service) issueToken(account *models.Staff) (*AuthResult, error) {
	token, err := auth.MintAccessToken(s.jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		VolunteerID: account.ID,
		Name:        account.Name,
		Role:        string(account.Role),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &AuthResult{Token: token, Staff: account}, nil
}

// canonicalContact lowercases email contacts and normalizes phone contacts
// so lookups hit regardless of input formatting.
func (s *service) canonicalContact(raw string) string {
	contact := strings.TrimSpace(raw)
	if contact == "" {
		return ""
	}
	if phone.LooksLikePhoneNumber(contact) {
		return s.normalizer.Normalize(contact)
	}
	return strings.ToLower(contact)
}
