package queries

import (
	"studio-booking/internal/domain/identity"
	"studio-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errs.New("resource not found")
	ErrForbidden = errs.New("forbidden")
)

// Viewer is the authenticated caller on the read side.
type Viewer struct {
	ID   uuid.UUID
	Role identity.Role
}

func (v Viewer) canSee(ownerID uuid.UUID) bool {
	return v.ID == ownerID || v.Role.IsAdmin()
}
