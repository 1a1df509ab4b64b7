package request

import (
	"time"

	"github.com/google/uuid"
)

type GrantCreditRequest struct {
	UserID      uuid.UUID  `json:"user_id" binding:"required"`
	PackageID   uuid.UUID  `json:"package_id" binding:"required"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	NextResetAt *time.Time `json:"next_reset_at,omitempty"`
}

type AdjustCreditRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Group  string    `json:"class_type_group" binding:"required"`
	Delta  int       `json:"delta" binding:"required"`
}
