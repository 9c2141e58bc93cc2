package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// State is one tenant-context frame: which tenant the current unit of work
// acts on behalf of, and whether isolation enforcement is active.
//
// Frames are immutable. Entering a scope derives a new context carrying a new
// frame; exiting is simply dropping back to the parent context, so the prior
// frame is restored exactly, on normal and panicking exits alike. Because the
// frame travels with context.Context, concurrent requests can never observe
// each other's state.
type State struct {
	Enabled bool
	Tenant  *Tenant
}

// defaultState is what StateFromContext reports when no frame was ever set:
// enforcement on, no tenant bound.
var defaultState = State{Enabled: true, Tenant: nil}

// WithTenant enters a scope bound to the given tenant with enforcement
// enabled. The returned context carries the new frame; the parent context
// keeps the previous one.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, State{Enabled: true, Tenant: t})
}

// WithEnforcementDisabled enters a scope with isolation enforcement switched
// off and no tenant bound. Used for narrowly-scoped cross-tenant
// administrative operations and bypass paths.
func WithEnforcementDisabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, State{Enabled: false, Tenant: nil})
}

// StateFromContext returns the active frame, or the default frame
// (enforcement on, no tenant) if none was set.
func StateFromContext(ctx context.Context) State {
	if s, ok := ctx.Value(contextKey{}).(State); ok {
		return s
	}
	return defaultState
}

// CurrentTenant returns the tenant of the active frame.
//
// When enforcement is enabled and no tenant is bound it fails with
// ErrTenantRequired. When enforcement is disabled it returns the bound tenant
// (usually nil) without error.
func CurrentTenant(ctx context.Context) (*Tenant, error) {
	s := StateFromContext(ctx)
	if s.Enabled && s.Tenant == nil {
		return nil, ErrTenantRequired
	}
	return s.Tenant, nil
}

// FromContext retrieves the tenant from the context.
// Returns nil, false if no tenant is bound.
func FromContext(ctx context.Context) (*Tenant, bool) {
	s := StateFromContext(ctx)
	return s.Tenant, s.Tenant != nil
}

// IDFromContext retrieves just the tenant ID from the context.
// Returns zero UUID and false if no tenant is bound.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	t, ok := FromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return t.ID, true
}

// LoggerExtractor returns a ContextExtractor for the logger that adds the
// tenant ID to every log record emitted inside a tenant scope.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
