package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/storekit/pkg/tenant"
)

// MemoryRepository is an in-memory Repository used by tests and local
// development. It honors the same tenant-scoping and locking contract as the
// Postgres implementation: per-product mutexes play the role of row locks,
// so concurrent adjustments to one product serialize and block rather than
// fail fast.
type MemoryRepository struct {
	mu         sync.RWMutex
	products   map[uuid.UUID]*Product
	categories map[uuid.UUID]*Category
	movements  []*StockMovement
	rowLocks   map[uuid.UUID]*sync.Mutex
}

// NewMemoryRepository creates an empty in-memory catalog repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products:   make(map[uuid.UUID]*Product),
		categories: make(map[uuid.UUID]*Category),
		rowLocks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *MemoryRepository) CreateProduct(ctx context.Context, p *Product) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	scope.StampNew(p)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkProductUnique(p); err != nil {
		return err
	}

	if p.ID == (uuid.UUID{}) {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now

	cp := *p
	r.products[p.ID] = &cp
	r.rowLocks[p.ID] = &sync.Mutex{}
	return nil
}

func (r *MemoryRepository) CreateProducts(ctx context.Context, ps []*Product) error {
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

	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate the whole batch before touching the store so a failure leaves
	// nothing partially applied.
	for _, p := range ps {
		if err := r.checkProductUnique(p); err != nil {
			return err
		}
	}

	now := time.Now()
	for _, p := range ps {
		if p.ID == (uuid.UUID{}) {
			p.ID = uuid.New()
		}
		p.CreatedAt, p.UpdatedAt = now, now
		cp := *p
		r.products[p.ID] = &cp
		r.rowLocks[p.ID] = &sync.Mutex{}
	}
	return nil
}

func (r *MemoryRepository) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok || !scope.Owns(p) {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) ListProducts(ctx context.Context, f ProductFilter) ([]*Product, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Product
	for _, p := range r.products {
		if !scope.Owns(p) {
			continue
		}
		if f.CategoryID != (uuid.UUID{}) && p.CategoryID != f.CategoryID {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) UpdateProduct(ctx context.Context, p *Product) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[p.ID]
	if !ok {
		return ErrProductNotFound
	}
	// The persisted tenant is authoritative: reassignment attempts fail and
	// cross-tenant updates are rejected.
	if err := scope.CheckOwnership(stored); err != nil {
		return err
	}
	if p.TenantID != stored.TenantID {
		return tenant.ErrTenantMismatch
	}
	if err := r.checkProductUnique(p); err != nil {
		return err
	}

	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *MemoryRepository) UpdateProducts(ctx context.Context, ps []*Product) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// All-or-nothing: validate every record before applying any.
	for _, p := range ps {
		stored, ok := r.products[p.ID]
		if !ok {
			return ErrProductNotFound
		}
		if err := scope.CheckOwnership(stored); err != nil {
			return err
		}
		if p.TenantID != stored.TenantID {
			return tenant.ErrTenantMismatch
		}
	}

	now := time.Now()
	for _, p := range ps {
		p.CreatedAt = r.products[p.ID].CreatedAt
		p.UpdatedAt = now
		cp := *p
		r.products[p.ID] = &cp
	}
	return nil
}

func (r *MemoryRepository) CreateCategory(ctx context.Context, c *Category) error {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	scope.StampNew(c)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.TenantID == c.TenantID && existing.Slug == c.Slug && existing.ID != c.ID {
			return &ConflictError{Field: "slug"}
		}
	}

	if c.ID == (uuid.UUID{}) {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now

	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *MemoryRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Category
	for _, c := range r.categories {
		if !scope.Owns(c) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int, reason string, actor *uuid.UUID) (*StockMovement, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	p, ok := r.products[productID]
	if !ok || !scope.Owns(p) {
		r.mu.RUnlock()
		return nil, ErrProductNotFound
	}
	if !p.TrackInventory {
		r.mu.RUnlock()
		return nil, ErrInventoryNotTracked
	}
	rowLock := r.rowLocks[productID]
	r.mu.RUnlock()

	// Exclusive per-product lock for the read-modify-write, the in-memory
	// analogue of SELECT ... FOR UPDATE. Contenders block and wait.
	rowLock.Lock()
	defer rowLock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p = r.products[productID]
	newQuantity := p.StockQuantity + delta
	if newQuantity < 0 {
		return nil, &InsufficientStockError{Current: p.StockQuantity, Requested: delta}
	}

	movement := &StockMovement{
		ID:             uuid.New(),
		TenantID:       p.TenantID,
		ProductID:      p.ID,
		QuantityChange: delta,
		QuantityBefore: p.StockQuantity,
		QuantityAfter:  newQuantity,
		Reason:         reason,
		CreatedBy:      actor,
		CreatedAt:      time.Now(),
	}

	p.StockQuantity = newQuantity
	p.UpdatedAt = movement.CreatedAt
	r.movements = append(r.movements, movement)

	cp := *movement
	return &cp, nil
}

func (r *MemoryRepository) ListStockMovements(ctx context.Context, productID uuid.UUID) ([]*StockMovement, error) {
	scope, err := tenant.ScopeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*StockMovement
	for _, m := range r.movements {
		if m.ProductID != productID || !scope.Owns(m) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// checkProductUnique enforces the per-tenant composite uniqueness of SKU and
// slug, mirroring the (tenant_id, sku) and (tenant_id, slug) indexes of the
// Postgres schema. Callers hold r.mu.
func (r *MemoryRepository) checkProductUnique(p *Product) error {
	for _, existing := range r.products {
		if existing.TenantID != p.TenantID || existing.ID == p.ID {
			continue
		}
		if existing.SKU == p.SKU {
			return &ConflictError{Field: "sku"}
		}
		if existing.Slug == p.Slug {
			return &ConflictError{Field: "slug"}
		}
	}
	return nil
}
