package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/storekit/pkg/pg"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

const uniqueTenantEmailConstraint = "unique_tenant_user_email"

func mapUserUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueTenantEmailConstraint {
		return ErrEmailAlreadyExists
	}
	return err
}

// PostgresRepository is the production Repository backed by pgx. It also
// satisfies the onboarding store's user operations when handed a transaction
// via querier.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a user repository on top of an established
// connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `id, tenant_id, email, password_hash, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, u *User) error {
	return createUser(ctx, r.pool, u)
}

// createUser works against either the pool or an open transaction so the
// onboarding flow can reuse it under a savepoint.
func createUser(ctx context.Context, q querier, u *User) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	if !u.IsPlatformAdmin() {
		scope.StampNew(u)
	}

	if u.ID == (uuid.UUID{}) {
		u.ID = uuid.New()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err = q.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.TenantID, u.Email, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", mapUserUniqueViolation(err))
	}
	return nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	args := []any{id}
	if cond, ok := scope.SQLCondition("tenant_id", len(args)+1); ok {
		query += " AND " + cond
		args = append(args, scope.TenantID())
	}

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	args := []any{email}
	if cond, ok := scope.SQLCondition("tenant_id", len(args)+1); ok {
		query += " AND " + cond
		args = append(args, scope.TenantID())
	}

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]*User, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE true`
	var args []any
	if cond, ok := scope.SQLCondition("tenant_id", len(args)+1); ok {
		query += " AND " + cond
		args = append(args, scope.TenantID())
	}
	query += " ORDER BY created_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, u *User) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}

	return pg.RunInTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var storedTenant uuid.UUID
		err := tx.QueryRow(ctx, `SELECT tenant_id FROM users WHERE id = $1`, u.ID).Scan(&storedTenant)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user tenant: %w", err)
		}
		if scope.Enforced() && storedTenant != scope.TenantID() {
			return tenant.ErrTenantMismatch
		}
		if u.TenantID != storedTenant {
			return tenant.ErrTenantMismatch
		}

		u.UpdatedAt = time.Now()
		ct, err := tx.Exec(ctx, `
			UPDATE users SET email=$2, password_hash=$3, role=$4, is_active=$5, updated_at=$6
			WHERE id = $1 AND tenant_id = $7`,
			u.ID, u.Email, u.PasswordHash, u.Role, u.IsActive, u.UpdatedAt, storedTenant,
		)
		if err != nil {
			return fmt.Errorf("update user: %w", mapUserUniqueViolation(err))
		}
		if ct.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, p *Profile) error {
	return createProfile(ctx, r.pool, p)
}

func createProfile(ctx context.Context, q querier, p *Profile) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	scope.StampNew(p)

	if p.ID == (uuid.UUID{}) {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err = q.Exec(ctx, `
		INSERT INTO user_profiles (id, user_id, tenant_id, first_name, last_name, phone, position, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.UserID, p.TenantID, p.FirstName, p.LastName, p.Phone, p.Position, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, tenant_id, first_name, last_name, phone, position, created_at, updated_at
		FROM user_profiles WHERE user_id = $1`
	args := []any{userID}
	if cond, ok := scope.SQLCondition("tenant_id", len(args)+1); ok {
		query += " AND " + cond
		args = append(args, scope.TenantID())
	}

	var p Profile
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.UserID, &p.TenantID, &p.FirstName, &p.LastName, &p.Phone, &p.Position, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRepository exposes user creation bound to an open transaction so the
// onboarding flow can place it under a savepoint.
type TxRepository struct {
	tx pgx.Tx
}

// NewTxRepository wraps an open transaction.
func NewTxRepository(tx pgx.Tx) *TxRepository {
	return &TxRepository{tx: tx}
}

func (r *TxRepository) CreateUser(ctx context.Context, u *User) error {
	return createUser(ctx, r.tx, u)
}

func (r *TxRepository) CreateProfile(ctx context.Context, p *Profile) error {
	return createProfile(ctx, r.tx, p)
}
