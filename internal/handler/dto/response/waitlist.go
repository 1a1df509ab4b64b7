package response

import (
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type JoinWaitlistResponse struct {
	EntryID uuid.UUID `json:"entry_id"`
}

type WaitlistEntryResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	Position int       `json:"position"`
	Status   string    `json:"status"`
	Attempts int       `json:"attempts"`
	JoinedAt time.Time `json:"joinedAt"`
}

func FromWaitlistEntryView(rm *queries.WaitlistEntryView) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		ID:       rm.ID,
		UserID:   rm.UserID,
		Position: rm.Position,
		Status:   rm.Status,
		Attempts: rm.Attempts,
		JoinedAt: rm.JoinedAt,
	}
}
