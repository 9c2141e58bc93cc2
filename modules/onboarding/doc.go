// Package onboarding provisions new tenants atomically: the tenant record,
// its manager account with profile, and the default settings are created in
// one transaction, with the user step isolated behind a savepoint. A failure
// at any step leaves no partial tenant behind.
//
// Newly provisioned tenants start inactive and stay invisible to the
// subdomain resolver until activated by a platform operator.
package onboarding
