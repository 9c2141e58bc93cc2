package tenant

import "errors"

var (
	// ErrTenantRequired is returned when enforcement is enabled but no tenant
	// is bound to the context. This is a programming or routing error and
	// should never reach end users under normal request flow.
	ErrTenantRequired = errors.New("tenant required in context")

	// ErrTenantNotFound is returned when no active tenant matches the
	// requested subdomain. Surfaced to clients as not-found.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantMismatch is returned when a write targets a record owned by a
	// different tenant. Reassignment is never permitted.
	ErrTenantMismatch = errors.New("record belongs to a different tenant")

	// ErrMixedTenantBatch is returned when a bulk operation spans tenants.
	// The whole batch is rejected, nothing is partially applied.
	ErrMixedTenantBatch = errors.New("bulk operation spans multiple tenants")

	// ErrInactiveTenant is returned when an operation requires an active tenant.
	ErrInactiveTenant = errors.New("tenant is inactive")

	// ErrSubdomainInvalid is returned when a subdomain fails format validation.
	ErrSubdomainInvalid = errors.New("invalid subdomain format")

	// ErrSubdomainReserved is returned when a subdomain is on the reserved list.
	ErrSubdomainReserved = errors.New("subdomain is reserved")
)
