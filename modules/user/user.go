package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Roles assignable within a tenant. RolePlatformAdmin is special: such users
// carry a zero TenantID and exist outside any tenant scope.
const (
	RoleManager       = "manager"
	RoleStaff         = "staff"
	RoleCustomer      = "customer"
	RolePlatformAdmin = "platform_admin"
)

// User is a tenant-scoped account. Email is unique within the owning tenant,
// not globally.
type User struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`

	Email        string `json:"email"`
	PasswordHash []byte `json:"-"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) OwnerTenantID() uuid.UUID      { return u.TenantID }
func (u *User) SetOwnerTenantID(id uuid.UUID) { u.TenantID = id }

// IsPlatformAdmin reports whether the user operates outside tenant scope.
func (u *User) IsPlatformAdmin() bool {
	return u.Role == RolePlatformAdmin && u.TenantID == uuid.Nil
}

// Profile holds the personal details attached to a user. It is created
// explicitly by the service right after the user record, never implicitly.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Position  string `json:"position,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) OwnerTenantID() uuid.UUID      { return p.TenantID }
func (p *Profile) SetOwnerTenantID(id uuid.UUID) { p.TenantID = id }

// Repository is the tenant-scoped persistence contract for users and
// profiles. Implementations derive the scope from the context on every call.
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, u *User) error

	CreateProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}
