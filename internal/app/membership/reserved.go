// internal/app/membership/reserved.go
package membership

import "strings"

// Reserved holds the built-in pseudo-group names and the privilege-group
// name prefixes. Both are excluded from title-preference computation.
// The values are configuration so this package stays decoupled from the
// forum's naming conventions.
type Reserved struct {
	Registered string
	Verified   string
	Unverified string
	Banned     string

	// PrivilegePrefixes marks privilege groups by name prefix,
	// e.g. "cid:" or "global:privileges".
	PrivilegePrefixes []string
}

// DefaultReserved returns the stock forum naming.
func DefaultReserved() Reserved {
	return Reserved{
		Registered:        "registered-users",
		Verified:          "verified-users",
		Unverified:        "unverified-users",
		Banned:            "banned-users",
		PrivilegePrefixes: []string{"cid:", "global:privileges"},
	}
}

// IsPseudoGroup reports whether name is one of the built-in
// user-classification groups.
func (r Reserved) IsPseudoGroup(name string) bool {
	switch name {
	case r.Registered, r.Verified, r.Unverified, r.Banned:
		return name != ""
	}
	return false
}

// IsPrivilegeGroup reports whether name denotes a privilege group.
func (r Reserved) IsPrivilegeGroup(name string) bool {
	for _, p := range r.PrivilegePrefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
