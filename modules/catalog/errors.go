package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when no product matches within the
	// current tenant scope.
	ErrProductNotFound = errors.New("product not found")

	// ErrCategoryNotFound is returned when no category matches within the
	// current tenant scope.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrInventoryNotTracked is returned when adjusting stock of a product
	// that doesn't track inventory.
	ErrInventoryNotTracked = errors.New("product does not track inventory")
)

// InsufficientStockError is returned when an adjustment would drive the
// quantity negative. Current is the locked quantity at the time of failure.
type InsufficientStockError struct {
	Current   int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: current %d, requested change %d", e.Current, e.Requested)
}

// ConflictError reports a per-tenant uniqueness violation. Only the declared
// field is reported; the tenant dimension of the underlying composite index
// is deliberately stripped from the message.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}
