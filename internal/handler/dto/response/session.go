package response

import (
	"time"

	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	SessionID   uuid.UUID `json:"sessionId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Capacity    int       `json:"capacity"`
	Confirmed   int       `json:"confirmed"`
	OpenSeats   int       `json:"openSeats"`
	Waiting     int       `json:"waiting"`
}

func FromAvailabilityView(rm *queries.SessionAvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		SessionID:   rm.SessionID,
		ScheduledAt: rm.ScheduledAt,
		Capacity:    rm.Capacity,
		Confirmed:   rm.Confirmed,
		OpenSeats:   rm.OpenSeats,
		Waiting:     rm.Waiting,
	}
}
