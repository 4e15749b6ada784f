package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Role is an agency role. After normalization it is one of the canonical
// roles below, or the lower-cased raw value when the input is unknown.
type Role string

// Canonical roles
const (
	RoleAdvisor    Role = "asesor"
	RoleManager    Role = "gestor"
	RoleAdmin      Role = "administrador"
	RoleSuperAdmin Role = "superadmin"
)

// roleAliases maps every accepted spelling onto its canonical role
var roleAliases = map[string]Role{
	"asesor":        RoleAdvisor,
	"advisor":       RoleAdvisor,
	"gestor":        RoleManager,
	"manager":       RoleManager,
	"administrador": RoleAdmin,
	"admin":         RoleAdmin,
	"superadmin":    RoleSuperAdmin,
}

// NormalizeRole maps a raw role string onto its canonical role.
// Matching ignores case, accents and surrounding whitespace.
// Unrecognized roles pass through lower-cased.
func NormalizeRole(raw string) Role {
	key := strings.ToLower(strings.TrimSpace(raw))
	if role, ok := roleAliases[key]; ok {
		return role
	}
	if role, ok := roleAliases[foldRole(key)]; ok {
		return role
	}
	return Role(key)
}

// foldRole strips diacritics and applies Unicode case folding, so legacy
// values such as "Administradór" still resolve.
func foldRole(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// IsCanonical reports whether the role is one of the four canonical roles
func (r Role) IsCanonical() bool {
	switch r {
	case RoleAdvisor, RoleManager, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// CanonicalRoles returns the canonical roles in ascending privilege order
func CanonicalRoles() []Role {
	return []Role{RoleAdvisor, RoleManager, RoleAdmin, RoleSuperAdmin}
}
