package response

import (
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type GrantCreditResponse struct {
	CreditID uuid.UUID `json:"credit_id"`
}

type CreditResponse struct {
	ID                   uuid.UUID  `json:"id"`
	PackageID            uuid.UUID  `json:"packageId"`
	ClassTypeGroup       string     `json:"classTypeGroup"`
	IsPersonal           bool       `json:"isPersonal"`
	ClassesRemaining     int        `json:"classesRemaining"`
	ClassesUsedThisMonth int        `json:"classesUsedThisMonth"`
	Kind                 string     `json:"kind"`
	ExpiresAt            *time.Time `json:"expiresAt,omitempty"`
	NextResetAt          *time.Time `json:"nextResetAt,omitempty"`
	Status               string     `json:"status"`
}

func FromCreditView(rm *queries.CreditView) *CreditResponse {
	return &CreditResponse{
		ID:                   rm.ID,
		PackageID:            rm.PackageID,
		ClassTypeGroup:       rm.ClassTypeGroup,
		IsPersonal:           rm.IsPersonal,
		ClassesRemaining:     rm.ClassesRemaining,
		ClassesUsedThisMonth: rm.ClassesUsedThisMonth,
		Kind:                 rm.Kind,
		ExpiresAt:            rm.ExpiresAt,
		NextResetAt:          rm.NextResetAt,
		Status:               rm.Status,
	}
}
