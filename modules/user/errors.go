package user

import "errors"

var (
	// ErrUserNotFound is returned when no user matches within the current
	// tenant scope.
	ErrUserNotFound = errors.New("user not found")

	// ErrProfileNotFound is returned when a user has no profile record.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrEmailAlreadyExists reports a duplicate email within one tenant.
	// Registering the same address with a different tenant is allowed.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned for any authentication failure to
	// prevent user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserInactive is returned when a deactivated account authenticates
	// with otherwise valid credentials.
	ErrUserInactive = errors.New("user is inactive")
)
