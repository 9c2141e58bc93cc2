package validator

import (
	"fmt"
	"strings"
)

// disposableEmailDomains lists throwaway email providers rejected during
// tenant onboarding. Extend through BusinessEmailIn when the blocklist is
// managed externally.
var disposableEmailDomains = map[string]bool{
	"tempmail.com":      true,
	"guerrillamail.com": true,
	"mailinator.com":    true,
	"10minutemail.com":  true,
	"throwaway.email":   true,
}

// blockedTenantNames are names that signal abuse or confusion with system
// accounts.
var blockedTenantNames = map[string]bool{
	"test":   true,
	"admin":  true,
	"root":   true,
	"system": true,
	"null":   true,
	"demo":   true,
}

// MinTenantNameLength is the minimum accepted tenant name length.
const MinTenantNameLength = 3

// BusinessEmail rejects disposable email providers. It assumes the value has
// already passed ValidEmail.
func BusinessEmail(field, value string) Rule {
	return BusinessEmailIn(field, value, nil)
}

// BusinessEmailIn rejects disposable providers using the default blocklist
// plus any extra domains supplied by the caller.
func BusinessEmailIn(field, value string, extraDomains []string) Rule {
	return Rule{
		Check: func() bool {
			at := strings.LastIndex(value, "@")
			if at < 0 {
				return false
			}
			domain := strings.ToLower(value[at+1:])
			if disposableEmailDomains[domain] {
				return false
			}
			for _, d := range extraDomains {
				if domain == strings.ToLower(d) {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:          field,
			Message:        "disposable email addresses are not allowed",
			TranslationKey: "validation.email.disposable",
		},
	}
}

// PlausibleTenantName rejects blocklisted and too-short tenant names.
func PlausibleTenantName(field, value string) Rule {
	return Rule{
		Check: func() bool {
			name := strings.ToLower(strings.TrimSpace(value))
			if len(name) < MinTenantNameLength {
				return false
			}
			return !blockedTenantNames[name]
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("name is not allowed or shorter than %d characters", MinTenantNameLength),
			TranslationKey: "validation.tenant_name.implausible",
		},
	}
}
