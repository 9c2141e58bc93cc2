package onboarding

import "errors"

var (
	// ErrSubdomainTaken is returned when the requested subdomain is already
	// held by another tenant, active or not.
	ErrSubdomainTaken = errors.New("subdomain already taken")

	// ErrProvisionFailed wraps unexpected storage failures during the
	// provisioning transaction.
	ErrProvisionFailed = errors.New("tenant provisioning failed")
)
