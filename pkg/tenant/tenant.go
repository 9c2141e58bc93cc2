package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant represents an isolated customer partition identified by a unique
// subdomain. Tenants are created inactive by onboarding and soft-disabled
// via the Active flag, never deleted.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider loads tenant records from a data source.
type Provider interface {
	// GetBySubdomain retrieves a tenant by its normalized subdomain.
	// Returns ErrTenantNotFound if no tenant matches.
	GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
}
