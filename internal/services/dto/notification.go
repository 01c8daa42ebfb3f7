package dto

import (
	"time"

	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/repositories"
)

// ---------------- Requests ----------------

type InterestedRequest struct {
	FromEmail string  `json:"from_email" validate:"required"`
	Subject   *string `json:"subject"`
	Body      *string `json:"body"`
}

type SendBookingRequest struct {
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

// BookingScheduledInput - data carried by a booking_scheduled notification
type BookingScheduledInput struct {
	Email          string
	BookingTime    string
	CancelLink     string
	RescheduleLink string
	SurveyLink     *string
	Name           *string
	Age            *float64
	Extra          map[string]any
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID                    string                    `json:"id"`
	Type                  models.NotificationType   `json:"type"`
	Email                 string                    `json:"email"`
	Timestamp             time.Time                 `json:"timestamp"`
	Status                models.NotificationStatus `json:"status"`
	EmailSubject          *string                   `json:"emailSubject,omitempty"`
	EmailBody             *string                   `json:"emailBody,omitempty"`
	Data                  map[string]any            `json:"data,omitempty"`
	ResolvedAt            *time.Time                `json:"resolvedAt,omitempty"`
	PrescreenApprovalDate *time.Time                `json:"prescreenApprovalDate"`
}

func NewNotificationResponse(n *models.Notification, approvalDate *time.Time) *NotificationResponse {
	return &NotificationResponse{
		ID:                    n.ID,
		Type:                  n.Type,
		Email:                 n.Email,
		Timestamp:             n.Timestamp.UTC(),
		Status:                n.Status,
		EmailSubject:          n.EmailSubject,
		EmailBody:             n.EmailBody,
		Data:                  n.DataMap(),
		ResolvedAt:            n.ResolvedAt,
		PrescreenApprovalDate: approvalDate,
	}
}

func NewNotificationListResponse(rows []repositories.NotificationWithApproval) []*NotificationResponse {
	out := make([]*NotificationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewNotificationResponse(&rows[i].Notification, rows[i].PrescreenApprovalDate))
	}
	return out
}

type ListNotificationsQuery struct {
	Type string `form:"type" validate:"omitempty,notification-type"`
}
