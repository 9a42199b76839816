package access

import (
	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Denial reasons
const (
	ReasonCrossCountry = "cross-country access"
	ReasonNotOwner     = "not your order"
	ReasonRoleDenied   = "role not permitted for this operation"
)

// Decision is the outcome of a policy check
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns an allowing decision
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with reason
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err returns nil when allowed, otherwise a FORBIDDEN domain error
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return shared.NewForbiddenError(d.Reason)
}

// Evaluate applies country isolation. ADMIN is always allowed; other roles
// are allowed when the resource has no country or it matches their own.
func Evaluate(p Principal, resourceCountry Country) Decision {
	if p.IsAdmin() {
		return Allow()
	}
	if resourceCountry == "" || resourceCountry == p.Country {
		return Allow()
	}
	return Deny(ReasonCrossCountry)
}

// OwnerCheck allows only the owner of a resource
func OwnerCheck(p Principal, ownerID uuid.UUID) Decision {
	if p.ID == ownerID {
		return Allow()
	}
	return Deny(ReasonNotOwner)
}

// CountryFilter returns the country a listing query must be restricted to,
// or nil when the principal may see every country.
func CountryFilter(p Principal) *Country {
	if p.IsAdmin() {
		return nil
	}
	c := p.Country
	return &c
}
