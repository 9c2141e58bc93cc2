package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is a tenant-owned catalog item. TenantID is stamped on first
// persistence and immutable afterwards.
type Product struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	CategoryID uuid.UUID `json:"category_id"`

	Name             string `json:"name"`
	Slug             string `json:"slug"`
	SKU              string `json:"sku"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description,omitempty"`

	// Prices are stored in minor units to avoid float drift.
	PriceCents          int64 `json:"price_cents"`
	CompareAtPriceCents int64 `json:"compare_at_price_cents,omitempty"`

	TrackInventory    bool `json:"track_inventory"`
	StockQuantity     int  `json:"stock_quantity"`
	LowStockThreshold int  `json:"low_stock_threshold"`

	// Pharmaceutical fields, empty for non-pharma products.
	RequiresPrescription bool   `json:"requires_prescription"`
	ActiveIngredient     string `json:"active_ingredient,omitempty"`
	Dosage               string `json:"dosage,omitempty"`
	Manufacturer         string `json:"manufacturer,omitempty"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) OwnerTenantID() uuid.UUID      { return p.TenantID }
func (p *Product) SetOwnerTenantID(id uuid.UUID) { p.TenantID = id }

// InStock reports whether the product can be sold right now.
func (p *Product) InStock() bool {
	return !p.TrackInventory || p.StockQuantity > 0
}

// LowStock reports whether the quantity dropped to the alerting threshold.
func (p *Product) LowStock() bool {
	return p.TrackInventory && p.StockQuantity > 0 && p.StockQuantity <= p.LowStockThreshold
}

// Category groups products; Slug is unique within a tenant.
type Category struct {
	ID       uuid.UUID  `json:"id"`
	TenantID uuid.UUID  `json:"tenant_id"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`

	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"is_active"`
	DisplayOrder int    `json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) OwnerTenantID() uuid.UUID      { return c.TenantID }
func (c *Category) SetOwnerTenantID(id uuid.UUID) { c.TenantID = id }

// Stock movement reasons recorded in the audit trail.
const (
	ReasonSale       = "sale"
	ReasonReturn     = "return"
	ReasonAdjustment = "adjustment"
	ReasonDamage     = "damage"
	ReasonExpired    = "expired"
	ReasonRestock    = "restock"
	ReasonTransfer   = "transfer"
)

// StockMovement is one append-only audit record of a stock change.
type StockMovement struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	ProductID uuid.UUID `json:"product_id"`

	QuantityChange int    `json:"quantity_change"` // positive for increase, negative for decrease
	QuantityBefore int    `json:"quantity_before"`
	QuantityAfter  int    `json:"quantity_after"`
	Reason         string `json:"reason"`

	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (m *StockMovement) OwnerTenantID() uuid.UUID      { return m.TenantID }
func (m *StockMovement) SetOwnerTenantID(id uuid.UUID) { m.TenantID = id }

// ProductFilter narrows ListProducts. Zero values mean "no constraint".
type ProductFilter struct {
	CategoryID uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository is the tenant-scoped persistence contract for the catalog.
// Implementations derive the scope from the context on every call: reads are
// filtered to the current tenant, creates are stamped with it, and updates of
// records owned by another tenant fail with tenant.ErrTenantMismatch.
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	CreateProducts(ctx context.Context, ps []*Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	UpdateProducts(ctx context.Context, ps []*Product) error

	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]*Category, error)

	// AdjustStock atomically changes a product's quantity under an exclusive
	// row lock and appends the audit record. Fails with
	// InsufficientStockError when the delta would drive the quantity
	// negative.
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int, reason string, actor *uuid.UUID) (*StockMovement, error)
	ListStockMovements(ctx context.Context, productID uuid.UUID) ([]*StockMovement, error)
}
