//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"studio-booking/internal/domain/identity"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TokenFor issues a signed bearer token for the given user, using the same
// secret the application under test was configured with.
func TokenFor(t *testing.T, cfg config.Config, userID uuid.UUID, role identity.Role) string {
	t.Helper()

	duration, err := time.ParseDuration(cfg.JWT.Duration)
	require.NoError(t, err)

	token, err := jwt.NewService(cfg.JWT.Secret, duration).GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func MemberToken(t *testing.T, cfg config.Config, userID uuid.UUID) string {
	return TokenFor(t, cfg, userID, identity.RoleMember)
}

func AdminToken(t *testing.T, cfg config.Config, userID uuid.UUID) string {
	return TokenFor(t, cfg, userID, identity.RoleAdmin)
}
