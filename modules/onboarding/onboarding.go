package onboarding

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/storekit/modules/user"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

// Default tenant settings applied at provisioning time.
const (
	DefaultCurrency = "USD"
	DefaultTimezone = "UTC"
)

// Settings holds per-tenant store configuration created with defaults during
// onboarding and edited later by the manager.
type Settings struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`

	// ContactEmail defaults to the manager's address at signup and can be
	// changed to a shared store mailbox later.
	ContactEmail string `json:"contact_email"`

	Currency       string `json:"currency"`
	Timezone       string `json:"timezone"`
	LowStockAlerts bool   `json:"low_stock_alerts"`
	ReceiptFooter  string `json:"receipt_footer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Settings) OwnerTenantID() uuid.UUID      { return s.TenantID }
func (s *Settings) SetOwnerTenantID(id uuid.UUID) { s.TenantID = id }

// Input is the signup form for a new store and its manager.
type Input struct {
	StoreName string `json:"store_name"`
	Subdomain string `json:"subdomain"`

	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
}

// Result is everything provisioned for a successful signup.
type Result struct {
	Tenant   *tenant.Tenant `json:"tenant"`
	Manager  *user.User     `json:"manager"`
	Profile  *user.Profile  `json:"profile"`
	Settings *Settings      `json:"settings"`
}

// Store is the atomic persistence contract for onboarding. Provision either
// creates all four records or none of them.
type Store interface {
	// SubdomainTaken reports whether a tenant, active or not, already holds
	// the subdomain.
	SubdomainTaken(ctx context.Context, subdomain string) (bool, error)

	// Provision persists the tenant, manager, profile and settings
	// atomically. Implementations run the user step under a savepoint so a
	// duplicate email surfaces as user.ErrEmailAlreadyExists while the
	// whole transaction still rolls back.
	Provision(ctx context.Context, t *tenant.Tenant, manager *user.User, profile *user.Profile, settings *Settings) error
}
