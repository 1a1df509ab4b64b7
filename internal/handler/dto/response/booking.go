package response

import (
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReserveResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
}

type BookingResponse struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"userId"`
	SessionID            uuid.UUID `json:"sessionId"`
	ClassTypeName        string    `json:"classTypeName"`
	ClassTypeGroup       string    `json:"classTypeGroup"`
	ScheduledAt          time.Time `json:"scheduledAt"`
	Status               string    `json:"status"`
	CancellationDeadline time.Time `json:"cancellationDeadline"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID            uuid.UUID `json:"id"`
	SessionID     uuid.UUID `json:"sessionId"`
	ClassTypeName string    `json:"classTypeName"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:                   rm.ID,
		UserID:               rm.UserID,
		SessionID:            rm.SessionID,
		ClassTypeName:        rm.ClassTypeName,
		ClassTypeGroup:       rm.ClassTypeGroup,
		ScheduledAt:          rm.ScheduledAt,
		Status:               rm.Status,
		CancellationDeadline: rm.CancellationDeadline,
		CreatedAt:            rm.CreatedAt,
		UpdatedAt:            rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:            rm.ID,
		SessionID:     rm.SessionID,
		ClassTypeName: rm.ClassTypeName,
		ScheduledAt:   rm.ScheduledAt,
		Status:        rm.Status,
		CreatedAt:     rm.CreatedAt,
	}
}
