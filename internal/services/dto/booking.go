package dto

import (
	"time"

	"studyfunnel_backend/internal/repositories"
)

type CreateBookingInput struct {
	ParticipantID    string
	Email            string
	Name             *string
	BookingTime      time.Time
	BookingTimeLocal string
	CancelLink       string
	RescheduleLink   string
	SurveyLink       *string
}

type BookingResponse struct {
	ID               string    `json:"id"`
	ParticipantID    string    `json:"participantId"`
	Email            string    `json:"email"`
	Name             *string   `json:"name"`
	BookingTime      time.Time `json:"bookingTime"`
	BookingTimeLocal string    `json:"bookingTimeLocal"`
	CancelLink       string    `json:"cancelLink"`
	RescheduleLink   string    `json:"rescheduleLink"`
	SurveyLink       *string   `json:"surveyLink"`
	CreatedAt        time.Time `json:"createdAt"`
	ParticipantName  *string   `json:"participantName"`
	ParticipantEmail string    `json:"participantEmail"`
}

func NewBookingListResponse(rows []repositories.BookingWithParticipant) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, &BookingResponse{
			ID:               b.ID,
			ParticipantID:    b.ParticipantID,
			Email:            b.Email,
			Name:             b.Name,
			BookingTime:      b.BookingTime.UTC(),
			BookingTimeLocal: b.BookingTimeLocal,
			CancelLink:       b.CancelLink,
			RescheduleLink:   b.RescheduleLink,
			SurveyLink:       b.SurveyLink,
			CreatedAt:        b.CreatedAt.UTC(),
			ParticipantName:  b.ParticipantName,
			ParticipantEmail: b.ParticipantEmail,
		})
	}
	return out
}
