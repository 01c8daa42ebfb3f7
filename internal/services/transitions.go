package services

import (
	"context"
	"time"

	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/services/dto"
	"studyfunnel_backend/internal/webhook"
	"studyfunnel_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// transitionFunc applies the side effects of resolving n inside tx and returns
// the message to deliver after commit, if any
type transitionFunc func(ctx context.Context, tx *gorm.DB, n *models.Notification, at time.Time) (*webhook.Message, error)

type transitionHandler struct {
	approve transitionFunc
	reject  transitionFunc
}

func (h transitionHandler) forStatus(status models.NotificationStatus) transitionFunc {
	if status == models.NotificationStatusApproved {
		return h.approve
	}
	return h.reject
}

func (s *notificationService) transitionHandlers() map[models.NotificationType]transitionHandler {
	return map[models.NotificationType]transitionHandler{
		models.NotificationTypeEmailReceived: {
			approve: s.approveEmailReceived,
			reject:  silentReject,
		},
		models.NotificationTypePreScreenCompleted: {
			approve: s.approvePreScreen,
			reject:  rejectPreScreen,
		},
		models.NotificationTypeBookingScheduled: {
			approve: s.approveBooking,
			reject:  silentReject,
		},
	}
}

// resolve moves a pending notification to status. A notification that is no
// longer pending is returned as stored, with no side effects.
func (s *notificationService) resolve(ctx context.Context, db *gorm.DB, id string, status models.NotificationStatus, requiredType models.NotificationType) (*dto.NotificationResponse, error) {
	notification, err := s.findNotification(db, id)
	if err != nil {
		return nil, err
	}
	if requiredType != "" && notification.Type != requiredType {
		return nil, apperrors.ErrInvalidOperation("notification", "Notification is not of type "+string(requiredType))
	}
	handler, ok := s.handlers[notification.Type]
	if !ok {
		return nil, apperrors.ErrInvalidOperation("notification", "Notification type cannot be resolved")
	}

	ctx = logger.WithCorrelationID(ctx, notification.ID)
	if notification.Status != models.NotificationStatusPending {
		logger.CtxInfo(ctx, "notification already resolved", "status", notification.Status)
		return s.withApprovalDate(ctx, db, notification), nil
	}

	at := s.now().UTC()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	changed, err := s.notificationRepo.Resolve(tx, notification.ID, status, at)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	if !changed {
		current, err := s.findNotification(tx, notification.ID)
		if err != nil {
			return nil, err
		}
		logger.CtxInfo(ctx, "notification resolved concurrently", "status", current.Status)
		return s.withApprovalDate(ctx, tx, current), nil
	}

	msg, err := handler.forStatus(status)(ctx, tx, notification, at)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	notification.Status = status
	notification.ResolvedAt = &at
	notification.UpdatedAt = at
	logger.CtxInfo(ctx, "notification resolved", "type", notification.Type, "status", status)

	s.notify(ctx, msg)
	return s.withApprovalDate(ctx, db, notification), nil
}

func (s *notificationService) withApprovalDate(ctx context.Context, db *gorm.DB, n *models.Notification) *dto.NotificationResponse {
	var approvalDate *time.Time
	if participant, err := s.participantService.FindByEmail(ctx, db, n.Email); err == nil {
		approvalDate = participant.PrescreenApprovalDate
	}
	return dto.NewNotificationResponse(n, approvalDate)
}

func message(n *models.Notification, status models.NotificationStatus, template string, at time.Time) *webhook.Message {
	return &webhook.Message{
		ToEmail:        n.Email,
		NotificationID: n.ID,
		Status:         string(status),
		Timestamp:      at,
		Template:       template,
		Fields:         map[string]any{},
	}
}

func silentReject(context.Context, *gorm.DB, *models.Notification, time.Time) (*webhook.Message, error) {
	return nil, nil
}

func (s *notificationService) approveEmailReceived(ctx context.Context, tx *gorm.DB, n *models.Notification, at time.Time) (*webhook.Message, error) {
	if _, err := s.participantService.GetOrCreate(ctx, tx, n.Email); err != nil {
		return nil, err
	}
	return message(n, models.NotificationStatusApproved, webhook.TemplateInterestedParticipant, at), nil
}

func (s *notificationService) approvePreScreen(ctx context.Context, tx *gorm.DB, n *models.Notification, at time.Time) (*webhook.Message, error) {
	participant, err := s.participantService.SetEligible(ctx, tx, n.Email, at)
	if err != nil {
		return nil, err
	}
	msg := message(n, models.NotificationStatusApproved, webhook.TemplateEligibleParticipant, at)
	if participant.Name != nil {
		msg.Fields["name"] = *participant.Name
	}
	return msg, nil
}

func rejectPreScreen(ctx context.Context, tx *gorm.DB, n *models.Notification, at time.Time) (*webhook.Message, error) {
	return message(n, models.NotificationStatusRejected, webhook.TemplateNonEligibleParticipant, at), nil
}

// approveBooking stores the confirmed booking and builds the confirmation with
// display fields in the region's zone
func (s *notificationService) approveBooking(ctx context.Context, tx *gorm.DB, n *models.Notification, at time.Time) (*webhook.Message, error) {
	payload, err := n.Payload()
	if err != nil {
		logger.CtxWarn(ctx, "booking notification data unreadable", "error", err.Error())
	}
	booking, _ := payload.(models.BookingPayload)

	participant, err := s.participantService.FindByEmail(ctx, tx, n.Email)
	if err != nil {
		return nil, err
	}

	bookingTime, ok := bookingInstant(booking)
	if !ok {
		if participant.BookingTime == nil {
			return nil, apperrors.ErrInvalidOperation("booking", "Booking notification has no booking time")
		}
		bookingTime = *participant.BookingTime
	}
	bookingLocal := booking.BookingTime
	if bookingLocal == "" {
		bookingLocal = bookingTime.In(s.location).Format(time.RFC3339)
	}

	name := participant.Name
	if name == nil {
		name = booking.Name
	}
	surveyLink := participant.SurveyLink
	if surveyLink == nil {
		surveyLink = booking.SurveyLink
	}

	_, err = s.bookingService.Create(ctx, tx, &dto.CreateBookingInput{
		ParticipantID:    participant.ID,
		Email:            participant.Email,
		Name:             name,
		BookingTime:      bookingTime,
		BookingTimeLocal: bookingLocal,
		CancelLink:       booking.CancelLink,
		RescheduleLink:   booking.RescheduleLink,
		SurveyLink:       surveyLink,
	})
	if err != nil {
		return nil, err
	}

	msg := message(n, models.NotificationStatusApproved, webhook.TemplateBookingConfirmation, at)
	display, ok := displayBookingTime(bookingLocal, s.location)
	if !ok {
		logger.CtxWarn(ctx, "booking time not displayable", "booking_time", bookingLocal)
	}
	msg.Fields["booking_date"] = display.Date
	msg.Fields["booking_day"] = display.Day
	msg.Fields["booking_time"] = display.Time
	if name != nil {
		msg.Fields["name"] = *name
	}
	if booking.CancelLink != "" {
		msg.Fields["cancel_link"] = booking.CancelLink
	}
	if booking.RescheduleLink != "" {
		msg.Fields["reschedule_link"] = booking.RescheduleLink
	}
	return msg, nil
}

// bookingInstant prefers the UTC instant recorded at scheduling time
func bookingInstant(p models.BookingPayload) (time.Time, bool) {
	if utc, ok := p.Extra["bookingTimeUtc"].(string); ok {
		if t, ok := parseBookingTime(utc); ok {
			return t, true
		}
	}
	return parseBookingTime(p.BookingTime)
}
