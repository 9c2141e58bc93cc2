package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/storekit/pkg/tenant"
)

// MemoryRepository is an in-memory Repository for tests and local
// development, honoring the same tenant-scoping contract as the Postgres
// implementation.
type MemoryRepository struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*User
	profiles map[uuid.UUID]*Profile // keyed by user ID
}

// NewMemoryRepository creates an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[uuid.UUID]*User),
		profiles: make(map[uuid.UUID]*Profile),
	}
}

func (r *MemoryRepository) CreateUser(ctx context.Context, u *User) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	if !u.IsPlatformAdmin() {
		scope.StampNew(u)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.TenantID == u.TenantID && existing.Email == u.Email && existing.ID != u.ID {
			return ErrEmailAlreadyExists
		}
	}

	if u.ID == (uuid.UUID{}) {
		u.ID = uuid.New()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now

	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok || !scope.Owns(u) {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email && scope.Owns(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) ListUsers(ctx context.Context) ([]*User, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*User
	for _, u := range r.users {
		if !scope.Owns(u) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) UpdateUser(ctx context.Context, u *User) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[u.ID]
	if !ok {
		return ErrUserNotFound
	}
	if err := scope.CheckOwnership(stored); err != nil {
		return err
	}
	if u.TenantID != stored.TenantID {
		return tenant.ErrTenantMismatch
	}
	for _, existing := range r.users {
		if existing.TenantID == u.TenantID && existing.Email == u.Email && existing.ID != u.ID {
			return ErrEmailAlreadyExists
		}
	}

	u.CreatedAt = stored.CreatedAt
	u.UpdatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *MemoryRepository) CreateProfile(ctx context.Context, p *Profile) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	scope.StampNew(p)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[p.UserID]; !ok {
		return ErrUserNotFound
	}

	if p.ID == (uuid.UUID{}) {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now

	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

func (r *MemoryRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok || !scope.Owns(p) {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}
