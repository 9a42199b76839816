// Package access holds the authorization primitives shared by every
// resource: principals, country isolation, ownership and the static
// operation-to-role permission table.
package access

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the coarse-grained role of a principal
type Role string

// Roles
const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// AllRoles lists every role
var AllRoles = []Role{RoleAdmin, RoleManager, RoleMember}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// IsOperator reports whether the role may manage other users' orders
func (r Role) IsOperator() bool {
	return r == RoleAdmin || r == RoleManager
}

// ParseRole parses a role case-insensitively
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// Country is the isolation dimension for resources and principals
type Country string

// Countries
const (
	CountryIndia   Country = "INDIA"
	CountryAmerica Country = "AMERICA"
)

// AllCountries lists every supported country
var AllCountries = []Country{CountryIndia, CountryAmerica}

// IsValid reports whether c is a supported country
func (c Country) IsValid() bool {
	return c == CountryIndia || c == CountryAmerica
}

// String returns the string representation
func (c Country) String() string {
	return string(c)
}

// ParseCountry parses a country case-insensitively
func ParseCountry(s string) (Country, bool) {
	c := Country(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.IsValid()
}

// Principal is the authenticated actor of a request. It is built once per
// request from the access token and passed explicitly to every operation.
type Principal struct {
	ID      uuid.UUID
	Role    Role
	Country Country
}

// NewPrincipal creates a principal
func NewPrincipal(id uuid.UUID, role Role, country Country) Principal {
	return Principal{ID: id, Role: role, Country: country}
}

// IsAdmin reports whether the principal is an ADMIN
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsZero reports whether the principal is unset
func (p Principal) IsZero() bool {
	return p.ID == uuid.Nil && p.Role == ""
}
