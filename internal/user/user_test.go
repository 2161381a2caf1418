package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("hashes the password and starts with empty standing", func(t *testing.T) {
		got, err := New(" alice ", "Alice@Example.com", "correct horse", RoleUser)
		require.NoError(t, err)

		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "alice@example.com", got.Email)
		assert.Equal(t, RoleUser, got.Role)
		assert.Zero(t, got.ContributionCount)
		assert.Zero(t, got.ContributorRank)
		assert.NotEqual(t, "correct horse", got.PasswordHash)
		assert.True(t, got.CheckPassword("correct horse"))
		assert.False(t, got.CheckPassword("wrong horse"))
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := New("alice", "alice@example.com", "correct horse", "owner")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestRole_Privileged(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleModerator, true},
		{RoleContributor, false},
		{RoleUser, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Privileged())
			assert.True(t, tt.role.Valid())
		})
	}
}
