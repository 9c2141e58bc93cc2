package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/storekit/pkg/pg"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

// uniqueConstraintFields maps composite unique index names of the catalog
// schema to the field a client actually declared. The tenant component of the
// index never surfaces in error messages.
var uniqueConstraintFields = map[string]string{
	"unique_tenant_product_sku":   "sku",
	"unique_tenant_product_slug":  "slug",
	"unique_tenant_category_slug": "slug",
}

// mapUniqueViolation converts a Postgres duplicate-key error into a
// ConflictError naming only the declared field. Unknown constraints pass
// through untouched.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if field, ok := uniqueConstraintFields[pgErr.ConstraintName]; ok {
			return &ConflictError{Field: field}
		}
	}
	return err
}

// PostgresRepository is the production Repository backed by pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a catalog repository on top of an established
// connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, tenant_id, category_id, name, slug, sku, description, short_description,
	price_cents, compare_at_price_cents, track_inventory, stock_quantity, low_stock_threshold,
	requires_prescription, active_ingredient, dosage, manufacturer, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.TenantID, &p.CategoryID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.ShortDescription,
		&p.PriceCents, &p.CompareAtPriceCents, &p.TrackInventory, &p.StockQuantity, &p.LowStockThreshold,
		&p.RequiresPrescription, &p.ActiveIngredient, &p.Dosage, &p.Manufacturer, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, p *Product) error {
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

	_, err = r.pool.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		p.ID, p.TenantID, p.CategoryID, p.Name, p.Slug, p.SKU, p.Description, p.ShortDescription,
		p.PriceCents, p.CompareAtPriceCents, p.TrackInventory, p.StockQuantity, p.LowStockThreshold,
		p.RequiresPrescription, p.ActiveIngredient, p.Dosage, p.Manufacturer, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", mapUniqueViolation(err))
	}
	return nil
}

func (r *PostgresRepository) CreateProducts(ctx context.Context, ps []*Product) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}

	batch := make([]tenant.Owned, len(ps))
	for i, p := range ps {
		batch[i] = p
	}
	if err := scope.StampBatch(batch); err != nil {
		return err
	}

	return pg.RunInTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		now := time.Now()
		for _, p := range ps {
			if p.ID == (uuid.UUID{}) {
				p.ID = uuid.New()
			}
			p.CreatedAt, p.UpdatedAt = now, now

			_, err := tx.Exec(ctx, `
				INSERT INTO products (`+productColumns+`)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
				p.ID, p.TenantID, p.CategoryID, p.Name, p.Slug, p.SKU, p.Description, p.ShortDescription,
				p.PriceCents, p.CompareAtPriceCents, p.TrackInventory, p.StockQuantity, p.LowStockThreshold,
				p.RequiresPrescription, p.ActiveIngredient, p.Dosage, p.Manufacturer, p.IsActive, p.CreatedAt, p.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("bulk create product: %w", mapUniqueViolation(err))
			}
		}
		return nil
	})
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	args := []any{id}
	if cond, ok := scope.SQLCondition("tenant_id", len(args)+1); ok {
		query += " AND " + cond
		args = append(args, scope.TenantID())
	}

	p, err := scanProduct(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListProducts(ctx context.Context, f ProductFilter) ([]*Product, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE true`
	var args []any
	if cond, ok := scope.SQLCondition("tenant_id", len(args)+1); ok {
		query += " AND " + cond
		args = append(args, scope.TenantID())
	}
	if f.CategoryID != (uuid.UUID{}) {
		args = append(args, f.CategoryID)
		query += " AND category_id = $" + strconv.Itoa(len(args))
	}
	if f.ActiveOnly {
		query += " AND is_active"
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateProduct(ctx context.Context, p *Product) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	return pg.RunInTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return r.updateProductTx(ctx, tx, scope, p)
	})
}

func (r *PostgresRepository) UpdateProducts(ctx context.Context, ps []*Product) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	return pg.RunInTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, p := range ps {
			if err := r.updateProductTx(ctx, tx, scope, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// updateProductTx validates ownership against the persisted row before
// writing. The stored tenant is authoritative: a record whose in-memory
// tenant was mutated fails with ErrTenantMismatch and stays unchanged.
func (r *PostgresRepository) updateProductTx(ctx context.Context, tx pgx.Tx, scope tenant.Scope, p *Product) error {
	var storedTenant uuid.UUID
	err := tx.QueryRow(ctx, `SELECT tenant_id FROM products WHERE id = $1`, p.ID).Scan(&storedTenant)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("load product tenant: %w", err)
	}

	if scope.Enforced() && storedTenant != scope.TenantID() {
		return tenant.ErrTenantMismatch
	}
	if p.TenantID != storedTenant {
		return tenant.ErrTenantMismatch
	}

	p.UpdatedAt = time.Now()
	ct, err := tx.Exec(ctx, `
		UPDATE products SET category_id=$2, name=$3, slug=$4, sku=$5, description=$6, short_description=$7,
			price_cents=$8, compare_at_price_cents=$9, track_inventory=$10, low_stock_threshold=$11,
			requires_prescription=$12, active_ingredient=$13, dosage=$14, manufacturer=$15, is_active=$16, updated_at=$17
		WHERE id = $1 AND tenant_id = $18`,
		p.ID, p.CategoryID, p.Name, p.Slug, p.SKU, p.Description, p.ShortDescription,
		p.PriceCents, p.CompareAtPriceCents, p.TrackInventory, p.LowStockThreshold,
		p.RequiresPrescription, p.ActiveIngredient, p.Dosage, p.Manufacturer, p.IsActive, p.UpdatedAt,
		storedTenant,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", mapUniqueViolation(err))
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, c *Category) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	scope.StampNew(c)

	if c.ID == (uuid.UUID{}) {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err = r.pool.Exec(ctx, `
		INSERT INTO categories (id, tenant_id, parent_id, name, slug, description, is_active, display_order, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.TenantID, c.ParentID, c.Name, c.Slug, c.Description, c.IsActive, c.DisplayOrder, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create category: %w", mapUniqueViolation(err))
	}
	return nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, tenant_id, parent_id, name, slug, description, is_active, display_order, created_at, updated_at
		FROM categories WHERE true`
	var args []any
	if cond, ok := scope.SQLCondition("tenant_id", len(args)+1); ok {
		query += " AND " + cond
		args = append(args, scope.TenantID())
	}
	query += " ORDER BY display_order, name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.ParentID, &c.Name, &c.Slug, &c.Description,
			&c.IsActive, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int, reason string, actor *uuid.UUID) (*StockMovement, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var movement *StockMovement
	err = pg.RunInTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		// Exclusive row lock for the duration of the read-modify-write.
		// Contenders block here until the holder commits or rolls back.
		query := `SELECT tenant_id, track_inventory, stock_quantity FROM products WHERE id = $1`
		args := []any{productID}
		if cond, ok := scope.SQLCondition("tenant_id", len(args)+1); ok {
			query += " AND " + cond
			args = append(args, scope.TenantID())
		}
		query += " FOR UPDATE"

		var (
			tenantID       uuid.UUID
			trackInventory bool
			quantity       int
		)
		if err := tx.QueryRow(ctx, query, args...).Scan(&tenantID, &trackInventory, &quantity); err != nil {
			if pg.IsNotFoundError(err) {
				return ErrProductNotFound
			}
			return fmt.Errorf("lock product row: %w", err)
		}
		if !trackInventory {
			return ErrInventoryNotTracked
		}

		newQuantity := quantity + delta
		if newQuantity < 0 {
			return &InsufficientStockError{Current: quantity, Requested: delta}
		}

		now := time.Now()
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock_quantity = $2, updated_at = $3 WHERE id = $1`,
			productID, newQuantity, now,
		); err != nil {
			return fmt.Errorf("update stock quantity: %w", err)
		}

		movement = &StockMovement{
			ID:             uuid.New(),
			TenantID:       tenantID,
			ProductID:      productID,
			QuantityChange: delta,
			QuantityBefore: quantity,
			QuantityAfter:  newQuantity,
			Reason:         reason,
			CreatedBy:      actor,
			CreatedAt:      now,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (id, tenant_id, product_id, quantity_change, quantity_before, quantity_after, reason, created_by, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			movement.ID, movement.TenantID, movement.ProductID, movement.QuantityChange,
			movement.QuantityBefore, movement.QuantityAfter, movement.Reason, movement.CreatedBy, movement.CreatedAt,
		); err != nil {
			return fmt.Errorf("append stock movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (r *PostgresRepository) ListStockMovements(ctx context.Context, productID uuid.UUID) ([]*StockMovement, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, tenant_id, product_id, quantity_change, quantity_before, quantity_after, reason, created_by, created_at
		FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	if cond, ok := scope.SQLCondition("tenant_id", len(args)+1); ok {
		query += " AND " + cond
		args = append(args, scope.TenantID())
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ProductID, &m.QuantityChange, &m.QuantityBefore,
			&m.QuantityAfter, &m.Reason, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
