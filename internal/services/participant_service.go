package services

import (
	"context"
	"errors"
	"time"

	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/internal/models"
	"studyfunnel_backend/internal/repositories"
	"studyfunnel_backend/internal/services/dto"
	"studyfunnel_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ParticipantService owns participant rows. Only the notification engine calls the
// mutating methods; they never open their own transaction so they can join the caller's.
type ParticipantService interface {
	GetOrCreate(ctx context.Context, db *gorm.DB, email string) (*models.Participant, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*models.Participant, error)
	UpsertPendingReview(ctx context.Context, db *gorm.DB, input *dto.PendingReviewInput) (*models.Participant, error)
	SetEligible(ctx context.Context, db *gorm.DB, email string, at time.Time) (*models.Participant, error)
	Book(ctx context.Context, db *gorm.DB, input *dto.BookParticipantInput) (*models.Participant, error)

	ListAll(ctx context.Context, db *gorm.DB, status models.ParticipantStatus) ([]models.Participant, error)
	ListEligibleAwaitingBooking(ctx context.Context, db *gorm.DB) ([]models.Participant, error)
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
}

func NewParticipantService(participantRepo repositories.ParticipantRepository) ParticipantService {
	return &participantService{participantRepo: participantRepo}
}

func (s *participantService) GetOrCreate(ctx context.Context, db *gorm.DB, email string) (*models.Participant, error) {
	email = models.NormalizeEmail(email)

	existing, err := s.participantRepo.FindByEmail(db, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil, apperrors.ErrDatabase(err)
	}

	participant := &models.Participant{Email: email, Status: models.ParticipantStatusInterested}
	if err := s.participantRepo.Create(db, participant); err != nil {
		if errors.Is(err, repositories.ErrParticipantExists) {
			return s.FindByEmail(ctx, db, email)
		}
		return nil, apperrors.ErrDatabase(err)
	}

	logger.CtxInfo(ctx, "participant created", "participant_id", participant.ID, "status", participant.Status)
	return participant, nil
}

func (s *participantService) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*models.Participant, error) {
	participant, err := s.participantRepo.FindByEmail(db, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, apperrors.ErrNotFound(err, "participant", "Participant not found")
		}
		return nil, apperrors.ErrDatabase(err)
	}
	return participant, nil
}

func (s *participantService) UpsertPendingReview(ctx context.Context, db *gorm.DB, input *dto.PendingReviewInput) (*models.Participant, error) {
	email := models.NormalizeEmail(input.Email)
	profile := deriveProfile(input.Name, input.Answers)

	var surveyLink *string
	if input.AnalyzeURL != "" {
		surveyLink = &input.AnalyzeURL
	}

	existing, err := s.participantRepo.FindByEmail(db, email)
	if err != nil && !errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil, apperrors.ErrDatabase(err)
	}

	if existing == nil {
		participant := &models.Participant{
			Email:         email,
			Status:        models.ParticipantStatusPendingReview,
			Name:          profile.Name,
			Age:           profile.Age,
			PreScreenData: datatypes.JSON(input.Document),
			SurveyLink:    surveyLink,
		}
		if err := s.participantRepo.Create(db, participant); err != nil {
			return nil, apperrors.ErrDatabase(err)
		}
		logger.CtxInfo(ctx, "participant created", "participant_id", participant.ID, "status", participant.Status)
		return participant, nil
	}

	fields := map[string]interface{}{
		"name": profile.Name,
		"age":  profile.Age,
	}
	if existing.Status.Precedes(models.ParticipantStatusPendingReview) {
		fields["status"] = models.ParticipantStatusPendingReview
	}
	if len(input.Document) > 0 {
		fields["pre_screen_data"] = datatypes.JSON(input.Document)
	}
	// the link only ever moves to another non-empty value
	if surveyLink != nil {
		fields["survey_link"] = *surveyLink
	}

	if err := s.participantRepo.Update(db, existing.ID, fields); err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return s.reload(db, existing.ID)
}

func (s *participantService) SetEligible(ctx context.Context, db *gorm.DB, email string, at time.Time) (*models.Participant, error) {
	participant, err := s.FindByEmail(ctx, db, email)
	if err != nil {
		return nil, err
	}

	if !participant.Status.Precedes(models.ParticipantStatusEligible) {
		logger.CtxWarn(ctx, "participant already past eligibility", "participant_id", participant.ID, "status", participant.Status)
		return participant, nil
	}

	err = s.participantRepo.Update(db, participant.ID, map[string]interface{}{
		"status":                  models.ParticipantStatusEligible,
		"prescreen_approval_date": at.UTC(),
	})
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return s.reload(db, participant.ID)
}

func (s *participantService) Book(ctx context.Context, db *gorm.DB, input *dto.BookParticipantInput) (*models.Participant, error) {
	participant, err := s.FindByEmail(ctx, db, input.Email)
	if err != nil {
		return nil, err
	}

	err = s.participantRepo.Update(db, participant.ID, map[string]interface{}{
		"status":             models.ParticipantStatusBooked,
		"booking_time":       input.BookingTimeUTC.UTC(),
		"booking_time_local": input.BookingTimeLocal,
		"cancel_link":        input.CancelLink,
		"reschedule_link":    input.RescheduleLink,
	})
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}

	logger.CtxInfo(ctx, "participant booked", "participant_id", participant.ID, "booking_time", input.BookingTimeLocal)
	return s.reload(db, participant.ID)
}

func (s *participantService) ListAll(ctx context.Context, db *gorm.DB, status models.ParticipantStatus) ([]models.Participant, error) {
	if status != "" && !status.IsValid() {
		return nil, apperrors.NewBadRequestError("Unknown participant status")
	}
	participants, err := s.participantRepo.FindAll(db, status)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return participants, nil
}

func (s *participantService) ListEligibleAwaitingBooking(ctx context.Context, db *gorm.DB) ([]models.Participant, error) {
	participants, err := s.participantRepo.FindEligibleAwaitingBooking(db)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return participants, nil
}

func (s *participantService) reload(db *gorm.DB, id string) (*models.Participant, error) {
	participant, err := s.participantRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	return participant, nil
}
