package services

import (
	"context"
	"errors"
	"time"

	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/repositories"
	"studyfunnel_backend/internal/services/dto"
	"studyfunnel_backend/internal/survey"
	"studyfunnel_backend/internal/webhook"
	"studyfunnel_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// SurveyFormatter flattens survey responses into question/answer pairs
type SurveyFormatter interface {
	Format(ctx context.Context, resp *survey.Response) ([]survey.QA, error)
	FormatRaw(ctx context.Context, raw []byte) ([]survey.QA, error)
}

// NotificationService is the funnel's transition engine: the only place that
// moves a participant between statuses.
type NotificationService interface {
	// Recording
	RecordEmailReceived(ctx context.Context, db *gorm.DB, email string, subject, body *string) (*dto.NotificationResponse, error)
	RecordPreScreenCompleted(ctx context.Context, db *gorm.DB, email, name string, resp *survey.Response) (*dto.NotificationResponse, error)
	RecordBookingScheduled(ctx context.Context, db *gorm.DB, input *dto.BookingScheduledInput) (*dto.NotificationResponse, error)
	ScheduleBooking(ctx context.Context, db *gorm.DB, req *dto.SendBookingRequest) (*models.Participant, error)

	// Review
	List(ctx context.Context, db *gorm.DB) ([]*dto.NotificationResponse, error)
	Approve(ctx context.Context, db *gorm.DB, id string) (*dto.NotificationResponse, error)
	Reject(ctx context.Context, db *gorm.DB, id string) (*dto.NotificationResponse, error)
	ApprovePreScreen(ctx context.Context, db *gorm.DB, id string) (*dto.NotificationResponse, error)
	RejectPreScreen(ctx context.Context, db *gorm.DB, id string) (*dto.NotificationResponse, error)
	SurveyResponse(ctx context.Context, db *gorm.DB, id string) ([]survey.QA, error)
}

type NotificationDeps struct {
	NotificationRepo   repositories.NotificationRepository
	ParticipantService ParticipantService
	BookingService     BookingService
	Formatter          SurveyFormatter
	Sink               webhook.Sink
	Location           *time.Location
	// Now defaults to time.Now
	Now func() time.Time
}

type notificationService struct {
	notificationRepo   repositories.NotificationRepository
	participantService ParticipantService
	bookingService     BookingService
	formatter          SurveyFormatter
	sink               webhook.Sink
	location           *time.Location
	now                func() time.Time

	handlers map[models.NotificationType]transitionHandler
}

func NewNotificationService(deps NotificationDeps) NotificationService {
	s := &notificationService{
		notificationRepo:   deps.NotificationRepo,
		participantService: deps.ParticipantService,
		bookingService:     deps.BookingService,
		formatter:          deps.Formatter,
		sink:               deps.Sink,
		location:           deps.Location,
		now:                deps.Now,
	}
	if s.sink == nil {
		s.sink = webhook.NopSink{}
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.handlers = s.transitionHandlers()
	return s
}

// ---------------- Recording ----------------

func (s *notificationService) RecordEmailReceived(ctx context.Context, db *gorm.DB, email string, subject, body *string) (*dto.NotificationResponse, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewBadRequestError("Email is required")
	}

	notification := &models.Notification{
		Type:         models.NotificationTypeEmailReceived,
		Email:        email,
		Timestamp:    s.now().UTC(),
		EmailSubject: subject,
		EmailBody:    body,
	}
	if err := s.notificationRepo.Create(db, notification); err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	logger.CtxInfo(ctx, "notification recorded", "notification_id", notification.ID, "type", notification.Type)
	return dto.NewNotificationResponse(notification, nil), nil
}

func (s *notificationService) RecordPreScreenCompleted(ctx context.Context, db *gorm.DB, email, name string, resp *survey.Response) (*dto.NotificationResponse, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.NewBadRequestError("Email is required")
	}

	if existing, err := s.findPreScreen(db, email); err != nil || existing != nil {
		return existing, err
	}

	// format before opening the transaction: a catalog failure must write nothing
	answers, err := s.formatter.Format(ctx, resp)
	if err != nil {
		return nil, err
	}
	document, err := resp.Document()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	// a concurrent poll may have recorded it meanwhile
	if existing, err := s.findPreScreen(tx, email); err != nil || existing != nil {
		return existing, err
	}

	_, err = s.participantService.UpsertPendingReview(ctx, tx, &dto.PendingReviewInput{
		Email:      email,
		Name:       name,
		Answers:    answers,
		Document:   document,
		AnalyzeURL: resp.AnalyzeURL,
	})
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		Type:      models.NotificationTypePreScreenCompleted,
		Email:     email,
		Timestamp: s.now().UTC(),
	}
	if err := notification.SetPayload(models.PreScreenPayload{Name: name}); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.notificationRepo.Create(tx, notification); err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	logger.CtxInfo(ctx, "notification recorded", "notification_id", notification.ID, "type", notification.Type)
	return dto.NewNotificationResponse(notification, nil), nil
}

func (s *notificationService) findPreScreen(db *gorm.DB, email string) (*dto.NotificationResponse, error) {
	existing, err := s.notificationRepo.FindByEmailAndType(db, email, models.NotificationTypePreScreenCompleted)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, nil
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return dto.NewNotificationResponse(existing, nil), nil
}

func (s *notificationService) RecordBookingScheduled(ctx context.Context, db *gorm.DB, input *dto.BookingScheduledInput) (*dto.NotificationResponse, error) {
	notification, err := s.recordBookingScheduled(db, input)
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "notification recorded", "notification_id", notification.ID, "type", notification.Type)
	return dto.NewNotificationResponse(notification, nil), nil
}

func (s *notificationService) recordBookingScheduled(db *gorm.DB, input *dto.BookingScheduledInput) (*models.Notification, error) {
	email := models.NormalizeEmail(input.Email)
	if email == "" {
		return nil, apperrors.NewBadRequestError("Email is required")
	}

	notification := &models.Notification{
		Type:      models.NotificationTypeBookingScheduled,
		Email:     email,
		Timestamp: s.now().UTC(),
	}
	payload := models.BookingPayload{
		BookingTime:    input.BookingTime,
		CancelLink:     input.CancelLink,
		RescheduleLink: input.RescheduleLink,
		SurveyLink:     input.SurveyLink,
		Name:           input.Name,
		Age:            input.Age,
		Extra:          input.Extra,
	}
	if err := notification.SetPayload(payload); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.notificationRepo.Create(db, notification); err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return notification, nil
}

func (s *notificationService) ScheduleBooking(ctx context.Context, db *gorm.DB, req *dto.SendBookingRequest) (*models.Participant, error) {
	if req.StartTime == "" || req.EndTime == "" || req.Email == "" || req.Body == "" {
		return nil, apperrors.ErrMissingFields
	}

	start, ok := parseBookingTime(req.StartTime)
	if !ok {
		return nil, apperrors.ValidationError(map[string]string{"startTime": "must be an RFC 3339 timestamp"})
	}
	local := start.In(s.location).Format(time.RFC3339)
	cancelLink, rescheduleLink := extractBookingLinks(req.Body)
	email := models.NormalizeEmail(req.Email)

	logger.CtxDebug(ctx, "booking parsed",
		"booking_time_utc", start.Format(time.RFC3339),
		"booking_time_local", local,
		"cancel_link", cancelLink,
		"reschedule_link", rescheduleLink,
	)

	extra := map[string]any{"bookingTimeUtc": start.Format(time.RFC3339)}
	if end, ok := parseBookingTime(req.EndTime); ok {
		extra["bookingEndTimeUtc"] = end.Format(time.RFC3339)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	participant, err := s.participantService.Book(ctx, tx, &dto.BookParticipantInput{
		Email:            email,
		BookingTimeUTC:   start,
		BookingTimeLocal: local,
		CancelLink:       cancelLink,
		RescheduleLink:   rescheduleLink,
	})
	if err != nil {
		return nil, err
	}

	notification, err := s.recordBookingScheduled(tx, &dto.BookingScheduledInput{
		Email:          email,
		BookingTime:    local,
		CancelLink:     cancelLink,
		RescheduleLink: rescheduleLink,
		SurveyLink:     participant.SurveyLink,
		Name:           participant.Name,
		Age:            participant.Age,
		Extra:          extra,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	logger.CtxInfo(ctx, "booking scheduled", "participant_id", participant.ID, "notification_id", notification.ID)
	return participant, nil
}

// ---------------- Review ----------------

func (s *notificationService) List(ctx context.Context, db *gorm.DB) ([]*dto.NotificationResponse, error) {
	rows, err := s.notificationRepo.FindAllWithApprovalDate(db)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return dto.NewNotificationListResponse(rows), nil
}

func (s *notificationService) Approve(ctx context.Context, db *gorm.DB, id string) (*dto.NotificationResponse, error) {
	return s.resolve(ctx, db, id, models.NotificationStatusApproved, "")
}

func (s *notificationService) Reject(ctx context.Context, db *gorm.DB, id string) (*dto.NotificationResponse, error) {
	return s.resolve(ctx, db, id, models.NotificationStatusRejected, "")
}

func (s *notificationService) ApprovePreScreen(ctx context.Context, db *gorm.DB, id string) (*dto.NotificationResponse, error) {
	return s.resolve(ctx, db, id, models.NotificationStatusApproved, models.NotificationTypePreScreenCompleted)
}

func (s *notificationService) RejectPreScreen(ctx context.Context, db *gorm.DB, id string) (*dto.NotificationResponse, error) {
	return s.resolve(ctx, db, id, models.NotificationStatusRejected, models.NotificationTypePreScreenCompleted)
}

func (s *notificationService) SurveyResponse(ctx context.Context, db *gorm.DB, id string) ([]survey.QA, error) {
	notification, err := s.findNotification(db, id)
	if err != nil {
		return nil, err
	}

	participant, err := s.participantService.FindByEmail(ctx, db, notification.Email)
	if err != nil {
		return nil, err
	}
	if !participant.HasPreScreenData() {
		return nil, apperrors.ErrNotFound(nil, "survey", "Survey response data not found")
	}

	return s.formatter.FormatRaw(ctx, participant.PreScreenData)
}

func (s *notificationService) findNotification(db *gorm.DB, id string) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotFound(err, "notification", "Notification not found")
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return notification, nil
}

// notify delivers after commit; delivery failures never undo the transition
func (s *notificationService) notify(ctx context.Context, msg *webhook.Message) {
	if msg == nil {
		return
	}
	if err := s.sink.Send(context.WithoutCancel(ctx), *msg); err != nil {
		logger.CtxWithError(ctx, "notification delivery failed", err,
			"notification_id", msg.NotificationID,
			"template", msg.Template,
		)
	}
}
