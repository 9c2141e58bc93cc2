package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/storekit/modules/user"
	"github.com/dmitrymomot/storekit/pkg/pg"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

const uniqueTenantSubdomainConstraint = "tenants_subdomain_key"

// PostgresStore is the production onboarding Store. It also satisfies
// tenant.Provider for the resolver middleware.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates an onboarding store on top of an established
// connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) SubdomainTaken(ctx context.Context, subdomain string) (bool, error) {
	var taken bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenants WHERE subdomain = $1)`, subdomain,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check subdomain: %w", err)
	}
	return taken, nil
}

// Provision writes all four records in one transaction. The manager and
// profile inserts run under a savepoint so their failure is distinguishable
// while the outer transaction still rolls everything back.
func (s *PostgresStore) Provision(ctx context.Context, t *tenant.Tenant, manager *user.User, profile *user.Profile, settings *Settings) error {
	return pg.RunInTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		t.CreatedAt = time.Now()
		_, err := tx.Exec(ctx, `
			INSERT INTO tenants (id, name, subdomain, active, created_at)
			VALUES ($1,$2,$3,$4,$5)`,
			t.ID, t.Name, t.Subdomain, t.Active, t.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueTenantSubdomainConstraint {
				return ErrSubdomainTaken
			}
			return fmt.Errorf("create tenant: %w", err)
		}

		err = pg.RunInSavepoint(ctx, tx, func(ctx context.Context, tx pgx.Tx) error {
			users := user.NewTxRepository(tx)
			if err := users.CreateUser(ctx, manager); err != nil {
				return err
			}
			return users.CreateProfile(ctx, profile)
		})
		if err != nil {
			return err
		}

		now := time.Now()
		settings.CreatedAt, settings.UpdatedAt = now, now
		_, err = tx.Exec(ctx, `
			INSERT INTO tenant_settings (id, tenant_id, contact_email, currency, timezone, low_stock_alerts, receipt_footer, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			settings.ID, settings.TenantID, settings.ContactEmail, settings.Currency, settings.Timezone,
			settings.LowStockAlerts, settings.ReceiptFooter, settings.CreatedAt, settings.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("create settings: %w", err)
		}
		return nil
	})
}

// GetBySubdomain implements tenant.Provider. Inactive tenants are returned
// as-is; the resolver middleware decides how to treat them.
func (s *PostgresStore) GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, subdomain, active, created_at
		FROM tenants WHERE subdomain = $1`, subdomain,
	).Scan(&t.ID, &t.Name, &t.Subdomain, &t.Active, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant by subdomain: %w", err)
	}
	return &t, nil
}

// Activate flips a provisioned tenant and its manager live.
func (s *PostgresStore) Activate(ctx context.Context, subdomain string) error {
	return pg.RunInTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		var tenantID uuid.UUID
		err := tx.QueryRow(ctx,
			`UPDATE tenants SET active = true WHERE subdomain = $1 RETURNING id`, subdomain,
		).Scan(&tenantID)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return tenant.ErrTenantNotFound
			}
			return fmt.Errorf("activate tenant: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET is_active = true WHERE tenant_id = $1 AND role = $2`,
			tenantID, user.RoleManager,
		)
		if err != nil {
			return fmt.Errorf("activate manager: %w", err)
		}
		return nil
	})
}
