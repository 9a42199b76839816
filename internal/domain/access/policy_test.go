package access

import (
	"testing"

	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		country  Country
		resource Country
		allowed  bool
	}{
		{"admin same country", RoleAdmin, CountryAmerica, CountryAmerica, true},
		{"admin other country", RoleAdmin, CountryAmerica, CountryIndia, true},
		{"manager same country", RoleManager, CountryIndia, CountryIndia, true},
		{"manager other country", RoleManager, CountryIndia, CountryAmerica, false},
		{"member same country", RoleMember, CountryAmerica, CountryAmerica, true},
		{"member other country", RoleMember, CountryAmerica, CountryIndia, false},
		{"member unset resource country", RoleMember, CountryIndia, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrincipal(uuid.New(), tt.role, tt.country)
			d := Evaluate(p, tt.resource)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, ReasonCrossCountry, d.Reason)
			}
		})
	}
}

func TestOwnerCheck(t *testing.T) {
	owner := uuid.New()

	t.Run("owner allowed", func(t *testing.T) {
		d := OwnerCheck(NewPrincipal(owner, RoleMember, CountryIndia), owner)
		assert.True(t, d.Allowed)
		assert.NoError(t, d.Err())
	})

	t.Run("admin is not an owner", func(t *testing.T) {
		d := OwnerCheck(NewPrincipal(uuid.New(), RoleAdmin, CountryIndia), owner)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotOwner, d.Reason)
	})
}

func TestDecision_Err(t *testing.T) {
	err := Deny("nope").Err()
	require.Error(t, err)
	assert.True(t, shared.IsForbidden(err))
	assert.Equal(t, "nope", err.Error())
}

func TestCountryFilter(t *testing.T) {
	assert.Nil(t, CountryFilter(NewPrincipal(uuid.New(), RoleAdmin, CountryIndia)))

	f := CountryFilter(NewPrincipal(uuid.New(), RoleManager, CountryAmerica))
	require.NotNil(t, f)
	assert.Equal(t, CountryAmerica, *f)
}

func TestParseRoleAndCountry(t *testing.T) {
	r, ok := ParseRole(" manager ")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, r)

	_, ok = ParseRole("owner")
	assert.False(t, ok)

	c, ok := ParseCountry("india")
	assert.True(t, ok)
	assert.Equal(t, CountryIndia, c)

	_, ok = ParseCountry("FRANCE")
	assert.False(t, ok)
}
