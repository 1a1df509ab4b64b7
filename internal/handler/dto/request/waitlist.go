package request

import (
	"github.com/google/uuid"
)

type JoinWaitlistRequest struct {
	SessionID uuid.UUID  `json:"session_id" binding:"required"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
}

func (r JoinWaitlistRequest) TargetUser(callerID uuid.UUID) uuid.UUID {
	if r.UserID != nil {
		return *r.UserID
	}
	return callerID
}

type LeaveWaitlistRequest struct {
	SessionID uuid.UUID  `json:"session_id" binding:"required"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
}

func (r LeaveWaitlistRequest) TargetUser(callerID uuid.UUID) uuid.UUID {
	if r.UserID != nil {
		return *r.UserID
	}
	return callerID
}
