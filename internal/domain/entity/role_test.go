package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
		ok    bool
	}{
		{input: "owner", want: RoleOwner, ok: true},
		{input: "vet", want: RoleVet, ok: true},
		{input: "admin", want: RoleAdmin, ok: true},
		{input: "superuser", ok: false},
		{input: "", ok: false},
		{input: "Vet", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRole(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRole_IsUpgradable(t *testing.T) {
	assert.False(t, RoleOwner.IsUpgradable())
	assert.True(t, RoleVet.IsUpgradable())
	assert.True(t, RoleAdmin.IsUpgradable())
	assert.False(t, Role("superuser").IsUpgradable())
}

func TestParseRoleStatus(t *testing.T) {
	for _, valid := range []string{"approved", "pending", "rejected"} {
		status, ok := ParseRoleStatus(valid)
		require.True(t, ok)
		assert.Equal(t, valid, status.String())
	}

	_, ok := ParseRoleStatus("unknown")
	assert.False(t, ok)
}

func TestRoles_Contains(t *testing.T) {
	allow := Roles{RoleAdmin}
	assert.True(t, allow.Contains(RoleAdmin))
	assert.False(t, allow.Contains(RoleOwner))
	assert.Equal(t, []string{"admin"}, allow.ToStrings())
}
