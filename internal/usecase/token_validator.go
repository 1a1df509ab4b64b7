package usecase

import (
	"studio-booking/internal/domain/identity"
	"studio-booking/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator is the auth boundary the HTTP layer depends on.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, identity.Role, error)
}

type jwtTokenValidator struct {
	svc *jwt.Service
}

func NewTokenValidator(svc *jwt.Service) TokenValidator {
	return &jwtTokenValidator{svc: svc}
}

func (v *jwtTokenValidator) ValidateToken(token string) (uuid.UUID, identity.Role, error) {
	claims, err := v.svc.ValidateToken(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	role, err := identity.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", jwt.ErrInvalidToken
	}
	return claims.UserID, role, nil
}
