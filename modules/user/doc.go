// Package user manages tenant-scoped accounts and their profiles.
//
// Users belong to exactly one tenant and email uniqueness is enforced per
// tenant, so the same address can register with different stores. Platform
// operators are the one exception: they carry no tenant and are only
// reachable when scope enforcement is disabled.
//
// Profile creation is an explicit service step that runs right after the
// user insert, inside the same transaction when the store supports one.
package user
