// Package catalog holds the tenant-owned product catalog: products,
// categories and the stock-movement audit trail.
//
// Every repository operation derives a tenant.Scope from the incoming
// context, so reads are filtered to the current tenant at the query level and
// writes are stamped with it. Stock adjustments take an exclusive lock on the
// product row for the duration of the read-modify-write, which keeps
// concurrent adjustments to the same product serialized and the stored
// quantity non-negative.
package catalog
