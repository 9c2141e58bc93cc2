// Package validator provides composable validation rules used across the
// storekit services, most prominently by tenant onboarding.
//
// The package promotes declarative validation by letting you build small Rule
// values that encapsulate a boolean Check function together with rich,
// translation-friendly error metadata. Rules are evaluated with the Apply
// helper which aggregates any failures into a ValidationErrors slice that
// satisfies the error interface, making it convenient to bubble up multiple
// field-specific problems in a single error return.
//
// Rule families are grouped per file: string length and presence
// (string_rules.go), format checks such as RFC 5322 emails (format_rules.go),
// password-strength policies (password_rules.go), and onboarding business
// rules like disposable-email and tenant-name blocklists (business_rules.go).
//
// # Usage
//
//	err := validator.Apply(
//	    validator.RequiredString("name", name),
//	    validator.ValidEmail("email", email),
//	    validator.BusinessEmail("email", email),
//	    validator.StrongPassword("password", password, validator.DefaultPasswordStrength()),
//	)
//	if err != nil {
//	    if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	        // iterate over field-level messages or translate them
//	    }
//	}
//
// # Error Handling
//
// ValidationErrors implements `Error`, so you can use `errors.As` to detect
// validation problems while preserving rich details. Individual field errors
// can be inspected with the helper methods Has, Get, GetErrors and Fields.
//
// There is no hidden global state; the package is stateless and
// goroutine-safe.
package validator
