package identity

import (
	"strings"

	"github.com/travel/backend/internal/domain/shared"
)

// Principal is the authenticated caller as established by the transport layer.
// The core trusts it as given; it is passed explicitly into every operation.
type Principal struct {
	ID           int64
	Role         string
	OfficeID     *string
	IsSuperAdmin bool
}

// NewPrincipal builds a validated principal. Blank office ids are treated as unset.
func NewPrincipal(id int64, role string, officeID *string, isSuperAdmin bool) (*Principal, error) {
	if id <= 0 {
		return nil, shared.NewInvalidArgumentError("principal id must be a positive integer")
	}
	if strings.TrimSpace(role) == "" && !isSuperAdmin {
		return nil, shared.NewInvalidArgumentError("principal role is required")
	}
	return &Principal{
		ID:           id,
		Role:         role,
		OfficeID:     normalizeOffice(officeID),
		IsSuperAdmin: isSuperAdmin,
	}, nil
}

// NormalizedRole returns the principal's canonical role
func (p *Principal) NormalizedRole() Role {
	return NormalizeRole(p.Role)
}

// IsSuper reports whether the principal holds superadmin rights,
// either through the explicit flag or through its role.
func (p *Principal) IsSuper() bool {
	return p.IsSuperAdmin || p.NormalizedRole() == RoleSuperAdmin
}

// Office returns the principal's office id, or "" when unset
func (p *Principal) Office() string {
	if p.OfficeID == nil {
		return ""
	}
	return *p.OfficeID
}

// RequirePrincipal returns Unauthenticated when no principal is present
func RequirePrincipal(p *Principal) error {
	if p == nil {
		return shared.ErrUnauthenticated
	}
	return nil
}

func normalizeOffice(officeID *string) *string {
	if officeID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*officeID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
