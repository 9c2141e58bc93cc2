package onboarding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/storekit/modules/user"
	"github.com/dmitrymomot/storekit/pkg/logger"
	"github.com/dmitrymomot/storekit/pkg/sanitizer"
	"github.com/dmitrymomot/storekit/pkg/tenant"
	"github.com/dmitrymomot/storekit/pkg/validator"
)

// Service orchestrates tenant signup: validation first, then the atomic
// provisioning transaction.
type Service struct {
	store              Store
	bcryptCost         int
	logger             *slog.Logger
	reservedSubdomains []string
	passwordStrength   validator.PasswordStrengthConfig
}

// Option configures a Service during construction.
type Option func(*Service)

// WithBcryptCost sets the bcrypt cost for the manager's password hash.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithReservedSubdomains replaces the default reserved-subdomain set.
func WithReservedSubdomains(reserved []string) Option {
	return func(s *Service) {
		s.reservedSubdomains = reserved
	}
}

// WithPasswordStrength sets custom password strength requirements.
func WithPasswordStrength(config validator.PasswordStrengthConfig) Option {
	return func(s *Service) {
		s.passwordStrength = config
	}
}

// NewService creates an onboarding service on top of an atomic store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		passwordStrength: validator.PasswordStrengthConfig{
			MinLength:      8,
			MaxLength:      128,
			MinCharClasses: 2,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateTenantWithManager provisions a new store from a signup form.
//
// The tenant and its manager are created inactive: the subdomain does not
// resolve and the manager cannot log in until a platform operator activates
// the store. All four records (tenant, manager, profile, settings) are
// written in one transaction; any failure rolls back everything.
func (s *Service) CreateTenantWithManager(ctx context.Context, in Input) (*Result, error) {
	email := sanitizer.NormalizeEmail(in.Email)
	subdomain := tenant.NormalizeSubdomain(in.Subdomain)

	if err := s.validate(in, email, subdomain); err != nil {
		return nil, err
	}

	taken, err := s.store.SubdomainTaken(ctx, subdomain)
	if err != nil {
		return nil, fmt.Errorf("check subdomain availability: %w", err)
	}
	if taken {
		return nil, ErrSubdomainTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	t := &tenant.Tenant{
		ID:        uuid.New(),
		Name:      in.StoreName,
		Subdomain: subdomain,
		Active:    false,
	}
	manager := &user.User{
		ID:           uuid.New(),
		TenantID:     t.ID,
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleManager,
		IsActive:     false,
	}
	profile := &user.Profile{
		ID:        uuid.New(),
		UserID:    manager.ID,
		TenantID:  t.ID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	}
	settings := &Settings{
		ID:             uuid.New(),
		TenantID:       t.ID,
		ContactEmail:   email,
		Currency:       DefaultCurrency,
		Timezone:       DefaultTimezone,
		LowStockAlerts: true,
	}

	// The tenant does not exist yet, so provisioning runs outside any tenant
	// scope with ownership set explicitly on each record.
	provisionCtx := tenant.WithEnforcementDisabled(ctx)
	if err := s.store.Provision(provisionCtx, t, manager, profile, settings); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) || errors.Is(err, ErrSubdomainTaken) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "tenant provisioning failed",
			slog.String("subdomain", subdomain),
			logger.Error(err),
		)
		return nil, errors.Join(ErrProvisionFailed, err)
	}

	s.logger.InfoContext(ctx, "tenant provisioned",
		logger.TenantID(t.ID.String()),
		slog.String("subdomain", t.Subdomain),
	)
	return &Result{Tenant: t, Manager: manager, Profile: profile, Settings: settings}, nil
}

func (s *Service) validate(in Input, email, subdomain string) error {
	var verr validator.ValidationErrors

	if err := validator.Apply(
		validator.PlausibleTenantName("store_name", in.StoreName),
		validator.ValidEmail("email", email),
		validator.BusinessEmail("email", email),
		validator.StrongPassword("password", in.Password, s.passwordStrength),
		validator.NotCommonPassword("password", in.Password),
	); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}

	var subErr error
	if s.reservedSubdomains != nil {
		subErr = tenant.ValidateSubdomainIn(subdomain, s.reservedSubdomains)
	} else {
		subErr = tenant.ValidateSubdomain(subdomain)
	}
	switch {
	case errors.Is(subErr, tenant.ErrSubdomainReserved):
		verr.Add(validator.ValidationError{
			Field:          "subdomain",
			Message:        "subdomain is reserved",
			TranslationKey: "validation.subdomain.reserved",
		})
	case subErr != nil:
		verr.Add(validator.ValidationError{
			Field:          "subdomain",
			Message:        "subdomain must be 1-60 characters, alphanumeric with inner hyphens",
			TranslationKey: "validation.subdomain.invalid",
		})
	}

	if len(verr) > 0 {
		return verr
	}
	return nil
}
