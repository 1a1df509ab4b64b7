package request

import (
	"github.com/google/uuid"
)

type ReserveRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
	// UserID lets an admin reserve on behalf of a member. Members may only
	// pass their own id or omit it.
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// TargetUser resolves who the seat is for.
func (r ReserveRequest) TargetUser(callerID uuid.UUID) uuid.UUID {
	if r.UserID != nil {
		return *r.UserID
	}
	return callerID
}
