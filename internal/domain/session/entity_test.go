//go:build unit

package session_test

import (
	"testing"

	"studio-booking/internal/domain/identity"
	"studio-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveCapacity(t *testing.T) {
	t.Run("group session uses stored capacity", func(t *testing.T) {
		s, err := builder.NewSessionBuilder().WithCapacity(6).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, 6, s.EffectiveCapacity())
	})

	t.Run("personal session is always capacity one", func(t *testing.T) {
		s, err := builder.NewSessionBuilder().
			WithCapacity(6).
			AsPersonal(uuid.New()).
			BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, 1, s.EffectiveCapacity())
	})
}

func TestVisibleTo(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	t.Run("group sessions are visible to everyone", func(t *testing.T) {
		s, err := builder.NewSessionBuilder().BuildDomain()
		require.NoError(t, err)
		assert.True(t, s.VisibleTo(stranger, identity.RoleMember))
	})

	t.Run("personal sessions hide from other members", func(t *testing.T) {
		s, err := builder.NewSessionBuilder().AsPersonal(owner).BuildDomain()
		require.NoError(t, err)

		assert.True(t, s.VisibleTo(owner, identity.RoleMember))
		assert.False(t, s.VisibleTo(stranger, identity.RoleMember))
		assert.True(t, s.VisibleTo(stranger, identity.RoleAdmin))
	})
}

func TestReservableBy(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	admin := uuid.New()

	t.Run("members reserve for themselves in group sessions", func(t *testing.T) {
		s, err := builder.NewSessionBuilder().BuildDomain()
		require.NoError(t, err)

		assert.True(t, s.ReservableBy(owner, owner, identity.RoleMember))
		assert.False(t, s.ReservableBy(owner, stranger, identity.RoleMember))
		assert.True(t, s.ReservableBy(owner, admin, identity.RoleAdmin))
	})

	t.Run("personal session seats belong to the bound user only", func(t *testing.T) {
		s, err := builder.NewSessionBuilder().AsPersonal(owner).BuildDomain()
		require.NoError(t, err)

		assert.True(t, s.ReservableBy(owner, owner, identity.RoleMember))
		assert.False(t, s.ReservableBy(stranger, stranger, identity.RoleMember))
		// even an admin cannot put someone else into a personal slot
		assert.False(t, s.ReservableBy(stranger, admin, identity.RoleAdmin))
		assert.True(t, s.ReservableBy(owner, admin, identity.RoleAdmin))
	})
}
